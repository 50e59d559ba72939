// Package mail sends email over SMTP using go-mail. Callers depend on the Mail
// interface; the twofactor module uses it to deliver email OTP codes.
package mail
