package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sweetshop/auth"
	"sweetshop/domain"
)

type ownerLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type customerLoginRequest struct {
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
}

type addSweetRequest struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func (s *Server) ownerLogin(c *gin.Context) {
	var req ownerLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, domain.NewInvalidRequestError("Username and password are required"))
		return
	}
	token, err := s.identity.OwnerLogin(req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (s *Server) customerLogin(c *gin.Context) {
	var req customerLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, domain.NewInvalidRequestError("Name and mobile are required"))
		return
	}
	customer, token, created, err := s.identity.CustomerLogin(c.Request.Context(), req.Name, req.Mobile)
	if err != nil {
		writeError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"customer": customer, "token": token})
}

func (s *Server) addSweet(c *gin.Context) {
	var req addSweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, domain.NewInvalidRequestError("Invalid sweet payload"))
		return
	}
	sweet, err := s.catalog.Add(c.Request.Context(), domain.Sweet{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Quantity: req.Quantity,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sweet)
}

func (s *Server) deleteSweet(c *gin.Context) {
	if err := s.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sweet deleted successfully"})
}

func (s *Server) listSweets(c *gin.Context) {
	sweets, err := s.catalog.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sweets)
}

func (s *Server) searchSweets(c *gin.Context) {
	filter := domain.SweetFilter{
		Name:     c.Query("name"),
		Category: c.Query("category"),
		SortBy:   c.Query("sortBy"),
		Order:    c.Query("sortOrder"),
	}
	// non-numeric price bounds are silently ignored
	if v, err := strconv.ParseFloat(c.Query("minPrice"), 64); err == nil {
		filter.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(c.Query("maxPrice"), 64); err == nil {
		filter.MaxPrice = &v
	}

	sweets, err := s.catalog.Search(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sweets)
}

func (s *Server) restockSweet(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, domain.NewInvalidRequestError("Quantity must be a positive number"))
		return
	}
	sweet, err := s.inventory.Restock(c.Request.Context(), c.Param("id"), req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sweet restocked", "sweet": sweet})
}

func (s *Server) purchaseSweet(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, domain.NewInvalidRequestError("Customer authentication and quantity are required"))
		return
	}
	purchase, err := s.inventory.Purchase(c.Request.Context(), c.Param("id"), c.GetString(ctxCustomerID), req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Purchase successful", "purchase": purchase})
}

func (s *Server) listPurchases(c *gin.Context) {
	var (
		purchases []domain.Purchase
		err       error
	)
	if c.GetString(ctxRole) == auth.RoleOwner {
		purchases, err = s.inventory.AllPurchases(c.Request.Context())
	} else {
		purchases, err = s.inventory.PurchasesFor(c.Request.Context(), c.GetString(ctxCustomerID))
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, purchases)
}
