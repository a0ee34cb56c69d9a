// dto.go
package dto

type SignupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest fields are optional; empty fields keep the current
// value.
type UpdateProfileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type OrderItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	DeliveryAddress string             `json:"deliveryAddress" binding:"required"`
	PaymentMethod   string             `json:"paymentMethod"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type CreateProductRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"required,gt=0"`
	Image       string   `json:"image"`
	Ingredients []string `json:"ingredients"`
}

type UpdateProductRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"required,gt=0"`
	Image       string   `json:"image"`
	Ingredients []string `json:"ingredients"`
}

type AddFavoriteRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

// BroadcastRequest is the body for the admin promotion/system notification
// endpoints.
type BroadcastRequest struct {
	Title     string `json:"title" binding:"required"`
	Message   string `json:"message" binding:"required"`
	RelatedID string `json:"relatedId"`
}
