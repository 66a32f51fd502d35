package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// ErrBusinessNotFound es terminal: el asistente no ofrece reintento si el
// negocio no existe.
var ErrBusinessNotFound = errors.New("Negocio no encontrado")

const genericBookingError = "Error al reservar la cita. Intenta de nuevo."

// Payloads del API público, tal como los sirve el backend.

type BusinessProfile struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Slug     string    `json:"slug"`
	Phone    string    `json:"phone"`
	Whatsapp string    `json:"whatsapp"`
	Address  string    `json:"address"`
	LogoURL  string    `json:"logo_url"`
}

type ServiceOption struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	DurationMinutes int       `json:"duration_minutes"`
	Price           float64   `json:"price"`
}

type BarberOption struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Bio      string    `json:"bio"`
	PhotoURL string    `json:"photo_url"`
}

type Slot struct {
	Time      string    `json:"time"`
	Datetime  time.Time `json:"datetime"`
	Available bool      `json:"available"`
}

type BookRequest struct {
	ServiceID   uuid.UUID  `json:"service_id"`
	BarberID    *uuid.UUID `json:"barber_id,omitempty"`
	ScheduledAt time.Time  `json:"scheduled_at"`
	ClientName  string     `json:"client_name"`
	ClientPhone string     `json:"client_phone"`
	ClientEmail string     `json:"client_email,omitempty"`
	ClientNotes string     `json:"notes,omitempty"`
}

type BookResponse struct {
	Appointment struct {
		ID          uuid.UUID `json:"id"`
		ScheduledAt time.Time `json:"scheduled_at"`
		Status      string    `json:"status"`
	} `json:"appointment"`
	PaymentLink string `json:"payment_link,omitempty"`
}

// Client consume el API público de reservas. Los errores del servidor se
// devuelven con su mensaje cuando lo hay; si no, con un genérico apto para
// mostrar al usuario.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Business(ctx context.Context, slug string) (*BusinessProfile, error) {
	var out BusinessProfile
	err := c.get(ctx, fmt.Sprintf("/api/public/%s", url.PathEscape(slug)), &out)
	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (c *Client) Services(ctx context.Context, slug string) ([]ServiceOption, error) {
	var out []ServiceOption
	err := c.get(ctx, fmt.Sprintf("/api/public/%s/services", url.PathEscape(slug)), &out)
	return out, err
}

func (c *Client) Barbers(ctx context.Context, slug string) ([]BarberOption, error) {
	var out []BarberOption
	err := c.get(ctx, fmt.Sprintf("/api/public/%s/barbers", url.PathEscape(slug)), &out)
	return out, err
}

func (c *Client) Availability(
	ctx context.Context,
	slug string,
	serviceID uuid.UUID,
	date time.Time,
	barberID *uuid.UUID,
) ([]Slot, error) {

	q := url.Values{}
	q.Set("service_id", serviceID.String())
	q.Set("date", date.Format("2006-01-02"))
	if barberID != nil {
		q.Set("barber_id", barberID.String())
	}

	var out []Slot
	path := fmt.Sprintf("/api/public/%s/availability?%s", url.PathEscape(slug), q.Encode())
	err := c.get(ctx, path, &out)
	return out, err
}

func (c *Client) Book(ctx context.Context, slug string, req BookRequest) (*BookResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(
		ctx, http.MethodPost,
		c.baseURL+fmt.Sprintf("/api/public/%s/book", url.PathEscape(slug)),
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, errors.New(genericBookingError)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, serverError(resp, genericBookingError)
	}

	var out BookResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errors.New(genericBookingError)
	}
	return &out, nil
}

var errNotFound = errors.New("not found")

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return serverError(resp, "Error al cargar los datos")
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// serverError prefiere el mensaje del servidor ({"error": ...}) y cae al
// genérico si no viene o no se puede leer.
func serverError(resp *http.Response, fallback string) error {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		return errors.New(payload.Error)
	}
	return errors.New(fallback)
}
