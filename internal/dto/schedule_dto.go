package dto

import "github.com/trainsapp/trains-backend/internal/models"

type CreateScheduleRequest struct {
	RouteID      string `json:"route_id"`
	TrainType    string `json:"train_type"`
	DepartAt     string `json:"depart_at"`
	ArriveAt     string `json:"arrive_at"`
	Status       string `json:"status"`
	DelayMinutes *int   `json:"delay_minutes"`
}

type UpdateScheduleRequest struct {
	TrainType    *string `json:"train_type"`
	DepartAt     *string `json:"depart_at"`
	ArriveAt     *string `json:"arrive_at"`
	Status       *string `json:"status"`
	DelayMinutes *int    `json:"delay_minutes"`
}

type PaginatedSchedules struct {
	Items    []models.Schedule `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}
