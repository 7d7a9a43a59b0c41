package handlers

import (
	userRepo "coursebook/database/repository/user"
)

// HandlerBundle collects every handler the router needs, assembled once
// in main.
type HandlerBundle struct {
	UserRepo userRepo.UserRepository

	Auth     *AuthHandler
	Booking  *BookingHandler
	Material *MaterialHandler
	Catalog  *CatalogHandler
	Admin    *AdminHandler
	User     *UserHandler
	Webhook  *PaymentWebhookHandler
}
