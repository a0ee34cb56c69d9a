// models.go
package model

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// OrderStatus is the order lifecycle state. Transitions move forward one step
// at a time (PENDING → PROCESSING → SHIPPED → DELIVERED) or jump to CANCELLED
// from any non-terminal state.
type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

var validStatuses = map[OrderStatus]bool{
	StatusPending:    true,
	StatusProcessing: true,
	StatusShipped:    true,
	StatusDelivered:  true,
	StatusCancelled:  true,
}

func (s OrderStatus) Valid() bool {
	return validStatuses[s]
}

// Terminal reports whether no further transition is possible.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

type NotificationType string

const (
	TypeOrderStatus NotificationType = "ORDER_STATUS"
	TypePromotion   NotificationType = "PROMOTION"
	TypeSystem      NotificationType = "SYSTEM"
)

func (t NotificationType) Valid() bool {
	return t == TypeOrderStatus || t == TypePromotion || t == TypeSystem
}

var validPaymentMethods = map[string]bool{
	"CASH":        true,
	"CREDIT_CARD": true,
	"DEBIT_CARD":  true,
	"PAYPAL":      true,
}

func ValidPaymentMethod(m string) bool {
	return validPaymentMethods[m]
}

type User struct {
	ID        string    `bson:"_id" json:"id"`
	Username  string    `bson:"username" json:"username"`
	Email     string    `bson:"email" json:"email"`
	Password  string    `bson:"password" json:"-"`
	Role      Role      `bson:"role" json:"role"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

type Product struct {
	ID          string    `bson:"_id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description" json:"description"`
	Price       float64   `bson:"price" json:"price"`
	Image       string    `bson:"image" json:"image"`
	Ingredients []string  `bson:"ingredients" json:"ingredients"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt"`
}

// OrderItem is a snapshot of a product taken at checkout. Price and Name are
// copied so later catalog edits never alter historical orders.
type OrderItem struct {
	ProductID string  `bson:"product_id" json:"productId"`
	Name      string  `bson:"name" json:"name"`
	Price     float64 `bson:"price" json:"price"`
	Quantity  int     `bson:"quantity" json:"quantity"`
}

// Order embeds its line items so creation and deletion are single-document
// writes (an order header without items can never exist).
type Order struct {
	ID              string      `bson:"_id" json:"id"`
	UserID          string      `bson:"user_id" json:"userId"`
	Status          OrderStatus `bson:"status" json:"status"`
	TotalAmount     float64     `bson:"total_amount" json:"totalAmount"`
	DeliveryAddress string      `bson:"delivery_address" json:"deliveryAddress"`
	PaymentMethod   string      `bson:"payment_method" json:"paymentMethod"`
	Items           []OrderItem `bson:"items" json:"items"`
	CreatedAt       time.Time   `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time   `bson:"updated_at" json:"updatedAt"`
}

// Ref returns the short order reference used in customer-facing messages,
// the last six characters of the id.
func (o *Order) Ref() string {
	if len(o.ID) <= 6 {
		return o.ID
	}
	return o.ID[len(o.ID)-6:]
}

type Notification struct {
	ID        string           `bson:"_id" json:"id"`
	UserID    string           `bson:"user_id" json:"userId"`
	Type      NotificationType `bson:"type" json:"type"`
	Title     string           `bson:"title" json:"title"`
	Message   string           `bson:"message" json:"message"`
	RelatedID string           `bson:"related_id" json:"relatedId,omitempty"`
	IsRead    bool             `bson:"is_read" json:"isRead"`
	CreatedAt time.Time        `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time        `bson:"updated_at" json:"updatedAt"`
}

type Favorite struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"user_id" json:"userId"`
	ProductID string    `bson:"product_id" json:"productId"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
