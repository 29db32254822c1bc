package domain

import "time"

type OrderStatus string

const (
	StatusPending         OrderStatus = "Pending"
	StatusConfirmed       OrderStatus = "Confirmed"
	StatusProcessing      OrderStatus = "Processing"
	StatusPacked          OrderStatus = "Packed"
	StatusShipped         OrderStatus = "Shipped"
	StatusInTransit       OrderStatus = "In Transit"
	StatusOutForDelivery  OrderStatus = "Out for Delivery"
	StatusDelivered       OrderStatus = "Delivered"
	StatusCancelled       OrderStatus = "Cancelled"
	StatusReturned        OrderStatus = "Returned"
	StatusRefundCompleted OrderStatus = "Refund Completed"
)

// OrderStatuses lists every status in display order. The order is informational:
// any status may follow any other.
var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusProcessing,
	StatusPacked,
	StatusShipped,
	StatusInTransit,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
	StatusReturned,
	StatusRefundCompleted,
}

func IsValidStatus(status OrderStatus) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Customer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

func (c Customer) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

type ShippingAddress struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type OrderItem struct {
	ProductID string   `json:"productId"`
	Title     string   `json:"title"`
	Images    []string `json:"images"`
	Size      string   `json:"size,omitempty"`
	Quantity  int      `json:"quantity"`
	Price     float64  `json:"price"`
}

type Payment struct {
	Status    string  `json:"status"`
	PaymentID *string `json:"paymentId,omitempty"`
}

type Order struct {
	StorageID       string          `json:"_id,omitempty"`
	OrderID         string          `json:"orderId"`
	User            Customer        `json:"user"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	Items           []OrderItem     `json:"items"`
	TotalAmount     float64         `json:"totalAmount"`
	Status          OrderStatus     `json:"status"`
	Payment         Payment         `json:"payment"`
	CreatedAt       *time.Time      `json:"createdAt,omitempty"`
}

// SearchQuery selects a customer's orders by email or mobile number.
type SearchQuery struct {
	Email  string `form:"email"`
	Mobile string `form:"mobile"`
}

func (q SearchQuery) IsEmpty() bool {
	return q.Email == "" && q.Mobile == ""
}

// Clone returns a deep copy of the order.
func (o Order) Clone() Order {
	out := o
	if o.Items != nil {
		out.Items = make([]OrderItem, len(o.Items))
		for i, item := range o.Items {
			item.Images = cloneStrings(item.Images)
			out.Items[i] = item
		}
	}
	if o.Payment.PaymentID != nil {
		id := *o.Payment.PaymentID
		out.Payment.PaymentID = &id
	}
	if o.CreatedAt != nil {
		t := *o.CreatedAt
		out.CreatedAt = &t
	}
	return out
}
