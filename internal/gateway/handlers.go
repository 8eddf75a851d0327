package gateway

import (
	"errors"
	"net/http"

	"github.com/danmuck/shipping/internal/observability"
	"github.com/danmuck/shipping/internal/shipping"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type labelResponse struct {
	TrackingNumber string `json:"tracking_number"`
	Image          string `json:"image"`
}

type returnLabelResponse struct {
	URL            string `json:"url"`
	UserID         string `json:"user_id"`
	Password       string `json:"password"`
	TrackingNumber string `json:"tracking_number"`
}

func (s *Server) handlePrice(c *gin.Context) {
	req, ok := bindRequest(c)
	if !ok {
		return
	}
	charge, err := s.fedex.Price(c.Request.Context(), s.account, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"net_charge": charge})
}

func (s *Server) handleDiscountPrice(c *gin.Context) {
	req, ok := bindRequest(c)
	if !ok {
		return
	}
	charge, err := s.fedex.DiscountPrice(c.Request.Context(), s.account, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"net_charge": charge})
}

func (s *Server) handleLabel(c *gin.Context) {
	req, ok := bindRequest(c)
	if !ok {
		return
	}
	label, err := s.fedex.Label(c.Request.Context(), s.account, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, labelResponse{
		TrackingNumber: label.TrackingNumber(),
		Image:          label.EncodedImage(),
	})
}

func (s *Server) handleReturnLabel(c *gin.Context) {
	req, ok := bindRequest(c)
	if !ok {
		return
	}
	label, err := s.fedex.ReturnLabel(c.Request.Context(), s.account, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, returnLabelResponse{
		URL:            label.URL(),
		UserID:         label.UserID(),
		Password:       label.Password(),
		TrackingNumber: label.TrackingNumber(),
	})
}

// handleVoid takes the transaction type from the query string since DELETE
// carries no body.
func (s *Server) handleVoid(c *gin.Context) {
	tracking := c.Param("tracking")
	req := shipping.Request{TransactionType: c.Query("transaction_type")}
	if err := s.fedex.Void(c.Request.Context(), s.account, req, tracking); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "voided", "tracking_number": tracking})
}

func (s *Server) handleServices(c *gin.Context) {
	req, ok := bindRequest(c)
	if !ok {
		return
	}
	services, err := s.fedex.AvailableServices(c.Request.Context(), s.account, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": services})
}

func (s *Server) handleExpressServices(c *gin.Context) {
	req, ok := bindRequest(c)
	if !ok {
		return
	}
	services, err := s.fedex.ExpressServiceAvailability(c.Request.Context(), s.account, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": services})
}

func (s *Server) handleRegister(c *gin.Context) {
	req, ok := bindRequest(c)
	if !ok {
		return
	}
	meter, err := s.fedex.Register(c.Request.Context(), s.account, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meter_number": meter})
}

func bindRequest(c *gin.Context) (shipping.Request, bool) {
	var req shipping.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return shipping.Request{}, false
	}
	return req, true
}

func writeError(c *gin.Context, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error().Str("request_id", observability.RequestIDFrom(c)).Err(err).Msg("operation failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, shipping.ErrMissingRequiredField), errors.Is(err, shipping.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, shipping.ErrCarrier):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
