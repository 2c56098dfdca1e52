package repository

import "github.com/Domenick1991/travelease/internal/domain"

var seedStations = []domain.Station{
	{ID: "station-1", Name: "New Delhi Railway Station", Code: "NDLS", City: "New Delhi", State: "Delhi", Country: "India", Lat: 28.6419, Lng: 77.2194},
	{ID: "station-2", Name: "Mumbai Central", Code: "MMCT", City: "Mumbai", State: "Maharashtra", Country: "India", Lat: 18.9691, Lng: 72.8193},
	{ID: "station-3", Name: "Howrah Junction", Code: "HWH", City: "Kolkata", State: "West Bengal", Country: "India", Lat: 22.5958, Lng: 88.3425},
	{ID: "station-4", Name: "Chennai Central", Code: "MAS", City: "Chennai", State: "Tamil Nadu", Country: "India", Lat: 13.0827, Lng: 80.2707},
	{ID: "station-5", Name: "Bengaluru City Junction", Code: "SBC", City: "Bengaluru", State: "Karnataka", Country: "India", Lat: 12.9784, Lng: 77.5738},
	{ID: "station-6", Name: "Hyderabad Deccan", Code: "HYB", City: "Hyderabad", State: "Telangana", Country: "India", Lat: 17.385, Lng: 78.4867},
	{ID: "station-7", Name: "Ahmedabad Junction", Code: "ADI", City: "Ahmedabad", State: "Gujarat", Country: "India", Lat: 23.0225, Lng: 72.5714},
	{ID: "station-8", Name: "Pune Junction", Code: "PUNE", City: "Pune", State: "Maharashtra", Country: "India", Lat: 18.5285, Lng: 73.8739},
	{ID: "station-9", Name: "Jaipur Junction", Code: "JP", City: "Jaipur", State: "Rajasthan", Country: "India", Lat: 26.9239, Lng: 75.7887},
	{ID: "station-10", Name: "Lucknow Charbagh", Code: "LKO", City: "Lucknow", State: "Uttar Pradesh", Country: "India", Lat: 26.8312, Lng: 80.9162},
}

var seedTrainTypes = []domain.TrainType{
	{ID: "train-type-1", Name: "Rajdhani Express", Number: "12301", Category: domain.TrainCategoryRajdhani,
		Amenities: []string{"WiFi", "Food Service", "Power Outlets", "Bedding", "Air Conditioning"}},
	{ID: "train-type-2", Name: "Shatabdi Express", Number: "12002", Category: domain.TrainCategoryShatabdi,
		Amenities: []string{"WiFi", "Food Service", "Power Outlets", "Executive Chair Car", "Air Conditioning"}},
	{ID: "train-type-3", Name: "Duronto Express", Number: "12213", Category: domain.TrainCategoryDuronto,
		Amenities: []string{"WiFi", "Food Service", "Power Outlets", "Bedding", "Air Conditioning"}},
	{ID: "train-type-4", Name: "Jan Shatabdi Express", Number: "12051", Category: domain.TrainCategorySuperfast,
		Amenities: []string{"WiFi", "Pantry Car", "Power Outlets"}},
	{ID: "train-type-5", Name: "Garib Rath Express", Number: "12203", Category: domain.TrainCategoryExpress,
		Amenities: []string{"Air Conditioning", "Budget Friendly", "Bedding"}},
}

var seedSchedules = []domain.TrainSchedule{
	// Delhi to Mumbai
	{ID: "schedule-1", TrainID: "train-type-1", DepartureStationID: "station-1", ArrivalStationID: "station-2",
		DepartureTime: "16:25", ArrivalTime: "08:15", Duration: "15h 50m", DistanceKm: 1384, PricePaise: 225000, SeatsAvailable: 42, Date: "2025-03-15"},
	{ID: "schedule-2", TrainID: "train-type-3", DepartureStationID: "station-1", ArrivalStationID: "station-2",
		DepartureTime: "22:30", ArrivalTime: "16:35", Duration: "18h 05m", DistanceKm: 1384, PricePaise: 185000, SeatsAvailable: 76, Date: "2025-03-15"},
	// Delhi to Kolkata
	{ID: "schedule-3", TrainID: "train-type-1", DepartureStationID: "station-1", ArrivalStationID: "station-3",
		DepartureTime: "16:55", ArrivalTime: "10:00", Duration: "17h 05m", DistanceKm: 1472, PricePaise: 235000, SeatsAvailable: 32, Date: "2025-03-15"},
	// Mumbai to Chennai
	{ID: "schedule-4", TrainID: "train-type-2", DepartureStationID: "station-2", ArrivalStationID: "station-4",
		DepartureTime: "05:40", ArrivalTime: "21:20", Duration: "15h 40m", DistanceKm: 1280, PricePaise: 195000, SeatsAvailable: 54, Date: "2025-03-15"},
	// Bengaluru to Hyderabad
	{ID: "schedule-5", TrainID: "train-type-4", DepartureStationID: "station-5", ArrivalStationID: "station-6",
		DepartureTime: "20:00", ArrivalTime: "08:30", Duration: "12h 30m", DistanceKm: 570, PricePaise: 85000, SeatsAvailable: 120, Date: "2025-03-15"},
	// Ahmedabad to Pune
	{ID: "schedule-6", TrainID: "train-type-5", DepartureStationID: "station-7", ArrivalStationID: "station-8",
		DepartureTime: "23:45", ArrivalTime: "12:30", Duration: "12h 45m", DistanceKm: 650, PricePaise: 75000, SeatsAvailable: 86, Date: "2025-03-15"},
}
