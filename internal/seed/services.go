package seed

import "github.com/nekogravitycat/vehicle-service-backend/internal/catalog"

// Services is the starter catalog.
var Services = []catalog.CreateRequest{
	{
		Name:         "Oil Change",
		Description:  "Complete engine oil change with high-quality synthetic oil. Includes oil filter replacement and multi-point inspection.",
		Category:     catalog.CategoryMaintenance,
		Price:        2999,
		Duration:     60,
		Features:     []string{"Synthetic oil replacement", "Oil filter change", "Multi-point inspection", "Free top-up fluids"},
		Requirements: []string{"Vehicle should be cool", "Bring service history if available"},
		Warranty:     30,
	},
	{
		Name:         "Brake Inspection",
		Description:  "Comprehensive brake system inspection including brake pads, rotors, and brake fluid check.",
		Category:     catalog.CategoryInspection,
		Price:        1499,
		Duration:     45,
		Features:     []string{"Brake pad inspection", "Rotor condition check", "Brake fluid level check", "Brake system test"},
		Requirements: []string{"Vehicle should be stationary", "Parking brake should be engaged"},
	},
	{
		Name:         "AC Service and Repair",
		Description:  "Complete air conditioning system service including refrigerant check, filter cleaning, and leak detection.",
		Category:     catalog.CategoryRepair,
		Price:        3999,
		Duration:     90,
		Features:     []string{"Refrigerant level check", "AC filter cleaning", "Leak detection", "Performance testing"},
		Requirements: []string{"Vehicle should be in shade", "AC should be turned off"},
		Warranty:     90,
	},
	{
		Name:         "Battery Replacement",
		Description:  "Professional battery replacement with testing and installation. Includes old battery disposal.",
		Category:     catalog.CategoryRepair,
		Price:        4999,
		Duration:     30,
		Features:     []string{"Battery testing", "New battery installation", "Terminal cleaning", "Old battery disposal"},
		Requirements: []string{"Vehicle should be turned off", "Bring old battery if available"},
		Warranty:     365,
	},
	{
		Name:         "Car Cleaning",
		Description:  "Professional interior and exterior car cleaning with premium products and attention to detail.",
		Category:     catalog.CategoryCleaning,
		Price:        1999,
		Duration:     120,
		Features:     []string{"Exterior wash and wax", "Interior vacuum and cleaning", "Dashboard and console cleaning", "Tire and wheel cleaning"},
		Requirements: []string{"Remove personal items", "Vehicle should be unlocked"},
	},
	{
		Name:         "Car Inspection",
		Description:  "Comprehensive vehicle inspection covering all major systems and components.",
		Category:     catalog.CategoryInspection,
		Price:        2499,
		Duration:     75,
		Features:     []string{"Engine inspection", "Electrical system check", "Suspension and steering test", "Safety systems verification"},
		Requirements: []string{"Vehicle should be clean", "Service history if available"},
	},
	{
		Name:         "Clutch and Body Part",
		Description:  "Clutch system repair and body part replacement with genuine parts and professional installation.",
		Category:     catalog.CategoryRepair,
		Price:        8999,
		Duration:     180,
		Features:     []string{"Clutch system repair", "Body part replacement", "Genuine parts used", "Quality assurance"},
		Requirements: []string{"Vehicle should be stationary", "Detailed issue description"},
		Warranty:     180,
	},
	{
		Name:         "Suspension Repair",
		Description:  "Complete suspension system repair including shock absorbers, springs, and alignment.",
		Category:     catalog.CategoryRepair,
		Price:        6999,
		Duration:     150,
		Features:     []string{"Shock absorber replacement", "Spring inspection", "Wheel alignment", "Suspension testing"},
		Requirements: []string{"Vehicle should be on level ground", "Previous inspection report if available"},
		Warranty:     180,
	},
	{
		Name:         "Tire Rotation",
		Description:  "Professional tire rotation service to ensure even wear and extend tire life.",
		Category:     catalog.CategoryMaintenance,
		Price:        999,
		Duration:     30,
		Features:     []string{"Tire rotation", "Tire pressure check", "Tire condition inspection", "Wheel balancing check"},
		Requirements: []string{"Vehicle should be stationary", "All tires should be same size"},
	},
}
