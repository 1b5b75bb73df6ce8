package model

import "time"

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// RequestStatuses lists every valid status in display order.
var RequestStatuses = []RequestStatus{RequestStatusPending, RequestStatusApproved, RequestStatusRejected}

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusRejected:
		return true
	}
	return false
}

// Request is a user's ask for a new resource to be added to the catalog.
type Request struct {
	ID           string        `json:"id"`
	UserName     string        `json:"userName"`
	ResourceName string        `json:"resourceName"`
	ResourceType string        `json:"resourceType"`
	RequestDate  time.Time     `json:"requestDate"`
	Status       RequestStatus `json:"status"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}
