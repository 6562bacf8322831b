// Package session implements the client side of USSD Autopay authentication:
// a durable token store, a reducer-driven session state machine, an
// authenticated HTTP client for the autopay backend, and an authorization
// gate that maps privilege requirements to render/redirect decisions.
//
// The backend owns all account state; everything this package holds is a
// mirror that is only trusted after the backend has accepted the credential.
package session
