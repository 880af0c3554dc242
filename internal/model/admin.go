package model

import "time"

// Admin is a back-office account.  Admins authenticate with email and
// password and receive JWT access tokens plus hashed refresh tokens;
// there is no customer account concept in this system.
type Admin struct {
	ID           uint64    // admins.id
	Email        string    // admins.email
	PasswordHash string    // admins.password_hash
	Role         string    // admins.role (currently always ADMIN)
	CreatedAt    time.Time // admins.created_at
}

// RoleAdmin is the only role issued today.  The role claim travels in
// the JWT so the middleware can guard admin routes.
const RoleAdmin = "ADMIN"
