package models

const DefaultVehicleImage = "https://images.unsplash.com/photo-1494976388531-d1058494cdd8?w=800&q=80"

// DefaultFleet is the catalog a fresh install starts with.
func DefaultFleet() []*Vehicle {
	return []*Vehicle{
		{ID: "1", Name: "Mercedes-Benz S-Class", Brand: "Mercedes-Benz", Type: "Sedan", Year: 2024, Seats: 5, Transmission: "Automatic", Fuel: "Petrol", Price: 250, Image: "https://images.unsplash.com/photo-1618843479313-40f8afb4b4d8?w=800&q=80", Available: true},
		{ID: "2", Name: "BMW X7", Brand: "BMW", Type: "SUV", Year: 2024, Seats: 7, Transmission: "Automatic", Fuel: "Petrol", Price: 280, Image: "https://images.unsplash.com/photo-1555215695-3004980ad54e?w=800&q=80", Available: true},
		{ID: "3", Name: "Porsche 911 Carrera", Brand: "Porsche", Type: "Sports", Year: 2023, Seats: 4, Transmission: "Automatic", Fuel: "Petrol", Price: 450, Image: "https://images.unsplash.com/photo-1503376780353-7e6692767b70?w=800&q=80", Available: true},
		{ID: "4", Name: "Tesla Model S", Brand: "Tesla", Type: "Sedan", Year: 2024, Seats: 5, Transmission: "Automatic", Fuel: "Electric", Price: 200, Image: "https://images.unsplash.com/photo-1560958089-b8a1929cea89?w=800&q=80", Available: true},
		{ID: "5", Name: "Range Rover Sport", Brand: "Land Rover", Type: "SUV", Year: 2023, Seats: 5, Transmission: "Automatic", Fuel: "Diesel", Price: 320, Image: "https://images.unsplash.com/photo-1606664515524-ed2f786a0bd6?w=800&q=80", Available: true},
		{ID: "6", Name: "Audi R8", Brand: "Audi", Type: "Sports", Year: 2023, Seats: 2, Transmission: "Automatic", Fuel: "Petrol", Price: 500, Image: "https://images.unsplash.com/photo-1603584173870-7f23fdae1b7a?w=800&q=80", Available: true},
		{ID: "7", Name: "BMW 7 Series", Brand: "BMW", Type: "Sedan", Year: 2024, Seats: 5, Transmission: "Automatic", Fuel: "Hybrid", Price: 260, Image: "https://images.unsplash.com/photo-1555215695-3004980ad54e?w=800&q=80", Available: true},
		{ID: "8", Name: "Mercedes-Benz G-Class", Brand: "Mercedes-Benz", Type: "SUV", Year: 2023, Seats: 5, Transmission: "Automatic", Fuel: "Petrol", Price: 380, Image: "https://images.unsplash.com/photo-1520031441872-265e4ff70366?w=800&q=80", Available: false},
	}
}
