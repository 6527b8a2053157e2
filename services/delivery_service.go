package services

import (
	"fmt"
)

// DeliveryQuote adalah hasil dari delivery collaborator: ongkir dalam satuan
// minor dan ETA menit. Engine menyimpan snapshot-nya dan tidak menghitung
// ulang.
type DeliveryQuote struct {
	Fee        int64 `json:"fee"`
	EtaMinutes int   `json:"eta_minutes"`
}

// DeliveryQuoter adalah boundary ke collaborator delivery. Perhitungan
// geofence/ongkir sesungguhnya ada di baliknya, bukan di engine.
type DeliveryQuoter interface {
	Quote(address string) (DeliveryQuote, error)
}

// StandardDeliveryService: implementasi default dengan tarif tetap.
type StandardDeliveryService struct {
	BaseFee    int64
	EtaMinutes int
}

func NewStandardDeliveryService() *StandardDeliveryService {
	return &StandardDeliveryService{
		BaseFee:    12000,
		EtaMinutes: 35,
	}
}

func (s *StandardDeliveryService) Quote(address string) (DeliveryQuote, error) {
	if address == "" {
		return DeliveryQuote{}, fmt.Errorf("delivery address is empty")
	}
	return DeliveryQuote{Fee: s.BaseFee, EtaMinutes: s.EtaMinutes}, nil
}
