package domain

type TrainCategory string

const (
	TrainCategoryRajdhani  TrainCategory = "Rajdhani"
	TrainCategoryShatabdi  TrainCategory = "Shatabdi"
	TrainCategoryDuronto   TrainCategory = "Duronto"
	TrainCategorySuperfast TrainCategory = "Superfast"
	TrainCategoryExpress   TrainCategory = "Express"
	TrainCategoryPassenger TrainCategory = "Passenger"
)

type TrainType struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Number    string        `json:"number"`
	Category  TrainCategory `json:"type"`
	Amenities []string      `json:"amenities"`
}

// TrainSchedule is one departure/arrival pair on a fixed calendar date.
// Times are local "15:04" strings and Date is "2006-01-02".
type TrainSchedule struct {
	ID                 string `json:"id"`
	TrainID            string `json:"train_id"`
	DepartureStationID string `json:"departure_station_id"`
	ArrivalStationID   string `json:"arrival_station_id"`
	DepartureTime      string `json:"departure_time"`
	ArrivalTime        string `json:"arrival_time"`
	Duration           string `json:"duration"`
	DistanceKm         int    `json:"distance_km"`
	PricePaise         int64  `json:"price_paise"`
	SeatsAvailable     int    `json:"seats_available"`
	Date               string `json:"date"`
}

// TrainResult is a schedule joined with its train and both stations.
// It is derived on every query and never stored.
type TrainResult struct {
	TrainSchedule
	Train            TrainType `json:"train"`
	DepartureStation Station   `json:"departure_station"`
	ArrivalStation   Station   `json:"arrival_station"`
}
