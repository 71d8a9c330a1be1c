package dto

type CreateRouteRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type UpdateRouteRequest struct {
	Name *string `json:"name"`
	Code *string `json:"code"`
}

type SetStopsRequest struct {
	Stops []RouteStopEntry `json:"stops"`
}

type RouteStopEntry struct {
	StopID           string `json:"stop_id"`
	Order            int    `json:"order"`
	MinutesFromStart int    `json:"minutes_from_start"`
}

type CreateStopRequest struct {
	Name string   `json:"name"`
	City string   `json:"city"`
	Lat  *float64 `json:"lat"`
	Lng  *float64 `json:"lng"`
}

type UpdateStopRequest struct {
	Name *string  `json:"name"`
	City *string  `json:"city"`
	Lat  *float64 `json:"lat"`
	Lng  *float64 `json:"lng"`
}

type AddFavoriteRequest struct {
	RouteID string `json:"route_id"`
}
