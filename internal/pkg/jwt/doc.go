// Package jwt issues and verifies HS512 bearer tokens for admin sessions and
// carries the verified claims through request contexts.
package jwt
