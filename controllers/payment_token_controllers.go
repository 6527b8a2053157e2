package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/ordering-app/services"
	"github.com/yeremiapane/ordering-app/utils"
)

type PaymentTokenController struct {
	Tokens *services.PaymentTokenService
}

func NewPaymentTokenController(tokens *services.PaymentTokenService) *PaymentTokenController {
	return &PaymentTokenController{Tokens: tokens}
}

// IssueToken -> terbitkan token pembayaran opaque untuk ringkasan
// amount/method. Verifikasi dana sesungguhnya terjadi di collaborator
// pembayaran, bukan di sini.
func (pc *PaymentTokenController) IssueToken(c *gin.Context) {
	var body struct {
		Amount    int64  `json:"amount" binding:"required"`
		Method    string `json:"method" binding:"required"`
		ItemCount int    `json:"item_count"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, "invalid_input", err)
		return
	}

	token, err := pc.Tokens.IssueToken(services.PaymentTokenRequest{
		Amount:    body.Amount,
		Method:    body.Method,
		ItemCount: body.ItemCount,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Payment token issued", token)
}
