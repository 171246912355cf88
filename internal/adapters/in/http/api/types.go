package api

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// JobId is the path parameter naming a job.
type JobId = openapi_types.UUID //nolint:revive // matches the contract name

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type NewJob struct {
	Kind         string  `json:"kind"`
	RegionId     string  `json:"regionId"` //nolint:revive // matches the contract name
	Category     *string `json:"category,omitempty"`
	VehicleClass *string `json:"vehicleClass,omitempty"`
	Pickup       string  `json:"pickup"`
	Dropoff      *string `json:"dropoff,omitempty"`
}

type JobStatus struct {
	JobId  openapi_types.UUID `json:"jobId"` //nolint:revive // matches the contract name
	Status string             `json:"status"`
}

type Assignee struct {
	Id          openapi_types.UUID `json:"id"` //nolint:revive // matches the contract name
	Contact     string             `json:"contact"`
	DisplayName string             `json:"displayName"`
}

type Position struct {
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	ReportedAt time.Time `json:"reportedAt"`
}

type Job struct {
	Id            openapi_types.UUID `json:"id"` //nolint:revive // matches the contract name
	Kind          string             `json:"kind"`
	Status        string             `json:"status"`
	RegionId      string             `json:"regionId"` //nolint:revive // matches the contract name
	Category      *string            `json:"category,omitempty"`
	VehicleClass  *string            `json:"vehicleClass,omitempty"`
	Pickup        string             `json:"pickup"`
	Dropoff       *string            `json:"dropoff,omitempty"`
	Assignee      *Assignee          `json:"assignee,omitempty"`
	Position      *Position          `json:"position,omitempty"`
	CodeExpiresAt *time.Time         `json:"codeExpiresAt,omitempty"`
	Version       int                `json:"version"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

type PositionReport struct {
	Contact    string     `json:"contact"`
	Lat        float64    `json:"lat"`
	Lon        float64    `json:"lon"`
	ReportedAt *time.Time `json:"reportedAt,omitempty"`
}

type PickupCode struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type CodeRequest struct {
	Code string `json:"code"`
}

type CandidateResponse struct {
	Contact string              `json:"contact"`
	Action  string              `json:"action"`
	JobId   *openapi_types.UUID `json:"jobId,omitempty"` //nolint:revive // matches the contract name
}

type Outcome struct {
	JobId  *openapi_types.UUID `json:"jobId,omitempty"` //nolint:revive // matches the contract name
	Status *string             `json:"status,omitempty"`
	Result string              `json:"result"`
}

type NewCandidate struct {
	Contact      string    `json:"contact"`
	DisplayName  string    `json:"displayName"`
	RegionId     string    `json:"regionId"` //nolint:revive // matches the contract name
	Category     *string   `json:"category,omitempty"`
	VehicleClass *string   `json:"vehicleClass,omitempty"`
	Attributes   *[]string `json:"attributes,omitempty"`
	Available    *bool     `json:"available,omitempty"`
}

type CandidateCreated struct {
	Id openapi_types.UUID `json:"id"` //nolint:revive // matches the contract name
}
