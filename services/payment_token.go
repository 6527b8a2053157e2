package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Format token: pay_<unix-expiry>_<uuid>. Engine hanya memeriksa bentuk dan
// expiry; verifikasi dana sesungguhnya terjadi di luar service ini sebelum
// token diterbitkan.
const paymentTokenPrefix = "pay_"

const paymentTokenTTL = 10 * time.Minute

// PaymentTokenService menerbitkan token opaque yang menyatakan dana untuk
// sejumlah amount sudah diotorisasi.
type PaymentTokenService struct{}

func NewPaymentTokenService() *PaymentTokenService {
	return &PaymentTokenService{}
}

type PaymentTokenRequest struct {
	Amount    int64
	Method    string
	ItemCount int
}

type PaymentToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *PaymentTokenService) IssueToken(req PaymentTokenRequest) (*PaymentToken, error) {
	if req.Amount <= 0 {
		return nil, &ValidationError{Code: "invalid_input", Message: "amount must be positive"}
	}
	if req.Method == "" {
		return nil, &ValidationError{Code: "invalid_input", Message: "payment method is required"}
	}

	expiresAt := time.Now().Add(paymentTokenTTL)
	token := fmt.Sprintf("%s%d_%s", paymentTokenPrefix, expiresAt.Unix(), uuid.NewString())

	return &PaymentToken{Token: token, ExpiresAt: expiresAt}, nil
}

// ValidTokenShape melakukan cek ringan prefix + bentuk + expiry. Token yang
// gagal di sini diperlakukan engine seolah tidak ada.
func ValidTokenShape(token string) bool {
	if !strings.HasPrefix(token, paymentTokenPrefix) {
		return false
	}

	rest := strings.TrimPrefix(token, paymentTokenPrefix)
	parts := strings.SplitN(rest, "_", 2)
	if len(parts) != 2 {
		return false
	}

	expiry, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return false
	}
	if time.Now().Unix() > expiry {
		return false
	}

	if _, err := uuid.Parse(parts[1]); err != nil {
		return false
	}
	return true
}
