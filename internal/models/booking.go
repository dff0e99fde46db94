package models

import "time"

// DateLayout is the ISO date format used for check-in and check-out dates
const DateLayout = "2006-01-02"

// Booking represents a confirmed room reservation
type Booking struct {
	ID           string    `json:"id"`
	UserID       int       `json:"userId"`
	RoomID       int       `json:"roomId"`
	CheckIn      time.Time `json:"checkIn"`
	CheckOut     time.Time `json:"checkOut"`
	Guests       int       `json:"guests"`
	Nights       int       `json:"nights"`
	NightlyPrice Money     `json:"nightlyPrice"`
	TotalPrice   Money     `json:"totalPrice"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CreateBookingRequest represents a request to book a room
type CreateBookingRequest struct {
	RoomID   int    `json:"roomId" validate:"required,gt=0"`
	CheckIn  string `json:"checkIn" validate:"required,datetime=2006-01-02"`
	CheckOut string `json:"checkOut" validate:"required,datetime=2006-01-02"`
	Guests   int    `json:"guests"`
}

// Receipt is the printable summary of a booking
type Receipt struct {
	BookingID    string    `json:"bookingId"`
	Username     string    `json:"username"`
	HotelName    string    `json:"hotelName"`
	City         string    `json:"city"`
	RoomName     string    `json:"roomName"`
	CheckIn      string    `json:"checkIn"`
	CheckOut     string    `json:"checkOut"`
	Nights       int       `json:"nights"`
	Guests       int       `json:"guests"`
	NightlyPrice Money     `json:"nightlyPrice"`
	TotalPrice   Money     `json:"totalPrice"`
	Total        string    `json:"total"`
	IssuedAt     time.Time `json:"issuedAt"`
}

// ReceiptDetails is the joined booking data a receipt is built from
type ReceiptDetails struct {
	Booking   Booking
	Username  string
	Email     string
	HotelName string
	City      string
	RoomName  string
}
