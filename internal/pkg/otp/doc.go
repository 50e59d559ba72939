// Package otp provides helpers for generating and validating one-time
// passwords (OTP).
//
// It covers the two factors used by the admin backend: TOTP secrets and codes
// for authenticator apps, and short random codes that are delivered by email.
package otp
