package payments

import (
	"context"
	"fmt"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"
)

// LinkProvider genera un enlace de pago por adelantado para una reserva.
type LinkProvider interface {
	PaymentLink(ctx context.Context, req LinkRequest) (string, error)
}

type LinkRequest struct {
	// Referencia externa: id de la cita.
	Reference    string
	Title        string
	Amount       float64
	PayerName    string
	PayerEmail   string
	BusinessName string
}

// MercadoPago crea preferencias de pago y devuelve el init point del checkout.
type MercadoPago struct {
	client preference.Client
}

func NewMercadoPago(accessToken string) (*MercadoPago, error) {
	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}

	return &MercadoPago{client: preference.NewClient(cfg)}, nil
}

func (m *MercadoPago) PaymentLink(ctx context.Context, req LinkRequest) (string, error) {
	resource, err := m.client.Create(ctx, preference.Request{
		ExternalReference: req.Reference,
		Items: []preference.ItemRequest{
			{
				Title:       req.Title,
				Description: req.BusinessName,
				Quantity:    1,
				UnitPrice:   req.Amount,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("mercadopago preference: %w", err)
	}

	return resource.InitPoint, nil
}

var _ LinkProvider = (*MercadoPago)(nil)
