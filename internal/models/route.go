package models

// PlannedRoute is a persisted collection round (routes table)
type PlannedRoute struct {
	ID              string  `json:"id" db:"id"`
	ContainerName   string  `json:"container_name" db:"container_name"`
	StartLatitude   float64 `json:"start_latitude" db:"start_latitude"`
	StartLongitude  float64 `json:"start_longitude" db:"start_longitude"`
	VolumeCapacity  float64 `json:"volume_capacity" db:"volume_capacity"`
	WeightCapacity  float64 `json:"weight_capacity" db:"weight_capacity"`
	Strategy        string  `json:"strategy" db:"strategy"`
	TotalDistance   float64 `json:"total_distance" db:"total_distance"`
	TotalVolume     float64 `json:"total_volume" db:"total_volume"`
	TotalWeight     float64 `json:"total_weight" db:"total_weight"`
	StopCount       int     `json:"stop_count" db:"stop_count"`
	CreatedByUserID *string `json:"created_by_user_id,omitempty" db:"created_by_user_id"`
	CreatedAt       int64   `json:"created_at" db:"created_at"` // Unix timestamp
}

// RouteStop is one visit of a planned route (route_stops table)
type RouteStop struct {
	ID            int     `json:"-" db:"id"`
	RouteID       string  `json:"-" db:"route_id"`
	BinID         string  `json:"bin_id" db:"bin_id"`
	SequenceOrder int     `json:"sequence_order" db:"sequence_order"`
	Latitude      float64 `json:"latitude" db:"latitude"`
	Longitude     float64 `json:"longitude" db:"longitude"`
	FillPercent   float64 `json:"fill_percent" db:"fill_percent"`
	WasteVolume   float64 `json:"waste_volume" db:"waste_volume"`
	WasteWeight   float64 `json:"waste_weight" db:"waste_weight"`
	Distance      float64 `json:"distance" db:"distance"`
}

// PlannedRouteWithStops is a planned route with its ordered stops
type PlannedRouteWithStops struct {
	PlannedRoute
	Stops        []RouteStop `json:"stops"`
	UnroutedBins []string    `json:"unrouted_bins,omitempty"`
}

// NewPlannedRoute flattens an optimizer result into its persisted form
func NewPlannedRoute(id string, container Container, strategy string, route *Route, createdAt int64) PlannedRouteWithStops {
	planned := PlannedRouteWithStops{
		PlannedRoute: PlannedRoute{
			ID:             id,
			ContainerName:  container.Name,
			StartLatitude:  container.Location.Latitude,
			StartLongitude: container.Location.Longitude,
			Strategy:       strategy,
			TotalDistance:  route.TotalDistance,
			TotalVolume:    route.TotalVolume,
			TotalWeight:    route.TotalWeight,
			StopCount:      len(route.OrderedBins),
			CreatedAt:      createdAt,
		},
		Stops:        make([]RouteStop, 0, len(route.OrderedBins)),
		UnroutedBins: route.UnroutedBins,
	}
	if container.Volume != nil {
		planned.VolumeCapacity = *container.Volume
	}
	if container.Weight != nil {
		planned.WeightCapacity = *container.Weight
	}
	for i, b := range route.OrderedBins {
		planned.Stops = append(planned.Stops, RouteStop{
			RouteID:       id,
			BinID:         b.Name,
			SequenceOrder: i + 1,
			Latitude:      b.Location.Latitude,
			Longitude:     b.Location.Longitude,
			FillPercent:   b.Capacity,
			WasteVolume:   b.WasteVolume(),
			WasteWeight:   b.WasteWeight(),
			Distance:      b.Distance,
		})
	}
	return planned
}
