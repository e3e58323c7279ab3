package usecases

import "hoa-server/entities"

// Actor is the authenticated caller of a use case.
type Actor struct {
	UserID uint
	Email  string
	Role   entities.Role
}

func (a Actor) Is(role entities.Role) bool { return a.Role == role }

// Notifier accepts notifications for asynchronous delivery.
type Notifier interface {
	Enqueue(ns ...entities.Notification)
}

// EventPublisher pushes realtime events to connected clients. Admins
// receive every event; other clients only when their user id is listed.
type EventPublisher interface {
	Publish(event string, payload interface{}, userIDs []uint)
}

type nopNotifier struct{}

func (nopNotifier) Enqueue(...entities.Notification) {}

type nopPublisher struct{}

func (nopPublisher) Publish(string, interface{}, []uint) {}
