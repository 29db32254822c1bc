package domain

import (
	"context"
	"io"
)

type CatalogGateway interface {
	List(ctx context.Context) ([]Product, error)
	Create(ctx context.Context, product Product) (*Product, error)
	Update(ctx context.Context, storageID string, product Product) (*Product, error)
	Delete(ctx context.Context, storageID string) error
	UploadAsset(ctx context.Context, asset Asset) (string, error)
}

type OrderGateway interface {
	List(ctx context.Context) ([]Order, error)
	Create(ctx context.Context, order Order) (*Order, error)
	Get(ctx context.Context, storageID string) (*Order, error)
	Search(ctx context.Context, query SearchQuery) ([]Order, error)
	UpdateStatus(ctx context.Context, storageID string, status OrderStatus, paymentID *string) (*Order, error)
	Delete(ctx context.Context, storageID string) error
}

// Asset is an image file waiting to be uploaded.
type Asset struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type NotificationLevel string

const (
	NotifySuccess NotificationLevel = "success"
	NotifyInfo    NotificationLevel = "info"
	NotifyError   NotificationLevel = "error"
)

type Notification struct {
	Level   NotificationLevel `json:"level"`
	Message string            `json:"message"`
}

// Notifier receives user-facing outcome messages from the sessions.
type Notifier interface {
	Notify(n Notification)
}

type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// Confirmer asks the operator a yes/no question before a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Answer is a Confirmer with a fixed reply.
type Answer bool

func (a Answer) Confirm(context.Context, string) (bool, error) { return bool(a), nil }
