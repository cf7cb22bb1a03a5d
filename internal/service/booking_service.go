// Package service contains the booking transaction engine: the
// component that turns an ordered sequence of room-and-nights requests
// into one atomic reservation, and that reverses a booking's inventory
// effect exactly once when it is cancelled.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harmyko/database-management-systems/internal/model"
	"github.com/harmyko/database-management-systems/internal/queue"
	"github.com/harmyko/database-management-systems/internal/repository"
)

// EventPublisher publishes booking lifecycle events after commit.
// Implemented by queue.Publisher; may be nil, in which case events are
// skipped. Publish failures never affect an already-committed booking.
type EventPublisher interface {
	BookingCreated(ctx context.Context, ev queue.BookingCreatedEvent) error
	BookingCancelled(ctx context.Context, ev queue.BookingCancelledEvent) error
}

// BookingService orchestrates booking creation and cancellation. Every
// operation runs as a single database transaction: either the booking
// row, all its items and all inventory decrements become visible
// together, or none of them do.
type BookingService struct {
	db        *sql.DB
	guests    *repository.GuestRepo
	rooms     *repository.RoomRepo
	bookings  *repository.BookingRepo
	inventory *repository.InventoryRepo
	events    EventPublisher
}

// NewBookingService constructs a BookingService. The repositories must
// all be bound to db; events may be nil.
func NewBookingService(db *sql.DB, guests *repository.GuestRepo, rooms *repository.RoomRepo,
	bookings *repository.BookingRepo, inventory *repository.InventoryRepo, events EventPublisher) *BookingService {
	if db == nil || guests == nil || rooms == nil || bookings == nil || inventory == nil {
		panic("nil dependency passed to NewBookingService")
	}
	return &BookingService{
		db:        db,
		guests:    guests,
		rooms:     rooms,
		bookings:  bookings,
		inventory: inventory,
		events:    events,
	}
}

// Address is the delivery address captured with a booking.
type Address struct {
	Country     string `json:"country"`
	City        string `json:"city"`
	PostalCode  string `json:"postal_code"`
	AddressLine string `json:"address_line"`
}

// ItemRequest asks for one room for a number of nights. Requests are
// processed in the order the caller supplies them.
type ItemRequest struct {
	RoomID uint64 `json:"room_id"`
	Nights uint32 `json:"nights"`
}

// AcceptedItem is an item that made it into the booking.
type AcceptedItem struct {
	ItemNumber uint32 `json:"item_number"`
	RoomID     uint64 `json:"room_id"`
	RoomNumber string `json:"room_number"`
	Nights     uint32 `json:"nights"`
	PriceCents uint32 `json:"price_cents"`
}

// RejectedItem is an item request that could not be satisfied. A
// rejected item does not abort the booking; the caller is told why and
// the remaining requests are still processed.
type RejectedItem struct {
	RoomID uint64 `json:"room_id"`
	Nights uint32 `json:"nights"`
	Reason string `json:"reason"`
}

// BookingResult reports a committed booking: its id, the authoritative
// total recomputed from the accepted items, and any rejected requests.
type BookingResult struct {
	BookingID  uint64         `json:"booking_id"`
	TotalCents uint64         `json:"total_cents"`
	Items      []AcceptedItem `json:"items"`
	Rejected   []RejectedItem `json:"rejected,omitempty"`
}

// CreateBooking places a booking for guestID with the given item
// requests, in order. The guest is validated before any state is
// created. Inside one transaction it inserts the booking in status New,
// then per request: locks the room row, snapshots its current price,
// reserves the nights through the inventory ledger and inserts the
// item under the next contiguous 1-based item number. Requests naming
// an unknown room or more nights than available are rejected
// individually without aborting the rest. If no request is accepted the
// whole transaction rolls back and ErrEmptyBooking is returned along
// with the per-item reasons. On success the total is recomputed as the
// sum of price × nights over the accepted items and committed together
// with everything else.
func (s *BookingService) CreateBooking(ctx context.Context, guestID uint64, addr Address, items []ItemRequest) (*BookingResult, error) {
	if len(items) == 0 {
		return nil, repository.ErrEmptyBooking
	}
	// Read-only guest check; failing here creates no state at all.
	guest, err := s.guests.GetByID(ctx, guestID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin booking transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	booking := &model.Booking{
		GuestID:     guest.ID,
		Country:     addr.Country,
		City:        addr.City,
		PostalCode:  addr.PostalCode,
		AddressLine: addr.AddressLine,
	}
	if err := s.bookings.CreateTx(ctx, tx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	result := &BookingResult{BookingID: booking.ID}
	itemNumber := uint32(1)
	var total uint64
	for _, req := range items {
		room, err := s.rooms.GetForUpdateTx(ctx, tx, req.RoomID)
		if errors.Is(err, repository.ErrRoomNotFound) {
			result.Rejected = append(result.Rejected, RejectedItem{RoomID: req.RoomID, Nights: req.Nights, Reason: err.Error()})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load room %d: %w", req.RoomID, err)
		}
		if err := s.inventory.ReserveTx(ctx, tx, room.ID, req.Nights); err != nil {
			if errors.Is(err, repository.ErrInsufficientAvailability) {
				result.Rejected = append(result.Rejected, RejectedItem{RoomID: req.RoomID, Nights: req.Nights, Reason: err.Error()})
				continue
			}
			return nil, fmt.Errorf("reserve room %d: %w", room.ID, err)
		}
		item := model.BookingItem{
			BookingID:  booking.ID,
			ItemNumber: itemNumber,
			RoomID:     room.ID,
			Nights:     req.Nights,
			PriceCents: room.PriceCents, // snapshot; later price changes never touch this booking
		}
		if err := s.bookings.AddItemTx(ctx, tx, item); err != nil {
			return nil, fmt.Errorf("add booking item %d: %w", itemNumber, err)
		}
		result.Items = append(result.Items, AcceptedItem{
			ItemNumber: itemNumber,
			RoomID:     room.ID,
			RoomNumber: room.RoomNumber,
			Nights:     req.Nights,
			PriceCents: room.PriceCents,
		})
		total += uint64(room.PriceCents) * uint64(req.Nights)
		itemNumber++
	}

	if len(result.Items) == 0 {
		// Rollback via the deferred handler: no booking row, no items,
		// and every reservation made above is reversed.
		return &BookingResult{Rejected: result.Rejected}, repository.ErrEmptyBooking
	}

	if err := s.bookings.SetTotalTx(ctx, tx, booking.ID, total); err != nil {
		return nil, fmt.Errorf("set booking total: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit booking: %w", err)
	}
	committed = true
	result.TotalCents = total

	if s.events != nil {
		ev := queue.BookingCreatedEvent{
			BookingID:  booking.ID,
			GuestID:    guest.ID,
			TotalCents: total,
			CreatedAt:  time.Now().UTC().Format(time.RFC3339),
		}
		for _, it := range result.Items {
			ev.Rooms = append(ev.Rooms, queue.BookedRoom{
				RoomID:     it.RoomID,
				RoomNumber: it.RoomNumber,
				Nights:     it.Nights,
				PriceCents: it.PriceCents,
			})
		}
		_ = s.events.BookingCreated(ctx, ev) // logged by the publisher
	}
	return result, nil
}

// CancelResult reports a committed cancellation.
type CancelResult struct {
	BookingID      uint64 `json:"booking_id"`
	ItemsReleased  int    `json:"items_released"`
	NightsReleased uint32 `json:"nights_released"`
}

// CancelBooking transitions a booking to Cancelled and returns every
// item's nights to room inventory, all in one transaction. A booking
// that is already Cancelled yields ErrAlreadyCancelled and no ledger
// mutation, so a booking can never be released twice.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID uint64) (*CancelResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin cancel transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	status, guestID, err := s.bookings.StatusForUpdateTx(ctx, tx, bookingID)
	if err != nil {
		return nil, err
	}
	if status == model.StatusCancelled {
		return nil, repository.ErrAlreadyCancelled
	}

	items, err := s.bookings.ItemsTx(ctx, tx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("load booking items: %w", err)
	}
	if err := s.bookings.MarkCancelledTx(ctx, tx, bookingID); err != nil {
		return nil, err
	}
	var nights uint32
	for _, it := range items {
		if err := s.inventory.ReleaseTx(ctx, tx, it.RoomID, it.Nights); err != nil {
			return nil, fmt.Errorf("release room %d: %w", it.RoomID, err)
		}
		nights += it.Nights
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit cancel: %w", err)
	}
	committed = true

	res := &CancelResult{BookingID: bookingID, ItemsReleased: len(items), NightsReleased: nights}
	if s.events != nil {
		_ = s.events.BookingCancelled(ctx, queue.BookingCancelledEvent{
			BookingID:      bookingID,
			GuestID:        guestID,
			ItemsReleased:  res.ItemsReleased,
			NightsReleased: res.NightsReleased,
			CancelledAt:    time.Now().UTC().Format(time.RFC3339),
		})
	}
	return res, nil
}
