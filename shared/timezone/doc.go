// Package timezone pins every timestamp and calendar date in the service to the
// zone named by APP_TIMEZONE (IANA names, e.g. "Asia/Kolkata"). The location is
// loaded when the package is imported and falls back to UTC.
//
// Booking dates are calendar days in this zone: a hall booked for "2025-05-02"
// is booked for that local day regardless of the client's offset.
package timezone
