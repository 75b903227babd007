package application

func ptr[T any](v T) *T { return &v }

// SeedApplications returns the fixture applications loaded at startup by the
// in-memory backend. Their statuses are recorded as-is; no supply side
// effects are replayed.
func SeedApplications() []*Application {
	return []*Application{
		{
			ID:            1,
			Organization:  "World Food Programme",
			AidType:       "Emergency Food Rations",
			Quantity:      "10,000 family kits",
			Description:   "Ready-to-eat meals and nutritional supplements for food insecure families in Cité Soleil",
			SubmittedDate: "2024-01-16",
			DeliveryDate:  "2024-01-18",
			Status:        StatusPending,
			Priority:      PriorityHigh,
			LocationID:    ptr[int64](1),
			AidDays:       ptr(4.2),
		},
		{
			ID:            2,
			Organization:  "Action Against Hunger",
			AidType:       "Cash Transfers",
			Quantity:      "$50,000 USD",
			Description:   "Direct cash assistance for food purchases in Jean Rabel markets",
			SubmittedDate: "2024-01-16",
			DeliveryDate:  "2024-01-19",
			Status:        StatusPending,
			Priority:      PriorityMedium,
			LocationID:    ptr[int64](3),
			AidDays:       ptr(3.5),
		},
		{
			ID:            3,
			Organization:  "Meds & Food for Kids",
			AidType:       "Therapeutic Foods",
			Quantity:      "5,000 RUTF packets",
			Description:   "Ready-to-use therapeutic food for malnourished children in Port-au-Prince",
			SubmittedDate: "2024-01-15",
			DeliveryDate:  "2024-01-17",
			Status:        StatusApproved,
			Priority:      PriorityHigh,
			LocationID:    ptr[int64](7),
			AidDays:       ptr(2.8),
		},
		{
			ID:            4,
			Organization:  "FAO",
			AidType:       "Agricultural Support",
			Quantity:      "2,000 seed kits",
			Description:   "Seeds and farming tools for sustainable food production in Artibonite Valley",
			SubmittedDate: "2024-01-15",
			DeliveryDate:  "2024-01-20",
			Status:        StatusRejected,
			Priority:      PriorityLow,
			LocationID:    ptr[int64](5),
			AidDays:       ptr(1.5),
		},
		{
			ID:            5,
			Organization:  "Papaye Peasant Movement",
			AidType:       "Training & Seeds",
			Quantity:      "500 farmer training sessions",
			Description:   "Resilient farming techniques and climate-adapted seeds for Croix-des-Bouquets",
			SubmittedDate: "2024-01-17",
			DeliveryDate:  "2024-01-20",
			Status:        StatusPending,
			Priority:      PriorityHigh,
			LocationID:    ptr[int64](2),
			AidDays:       ptr(4.1),
		},
		{
			ID:            6,
			Organization:  "Grown In Haiti",
			AidType:       "Food-bearing Trees",
			Quantity:      "1,000 fruit tree seedlings",
			Description:   "Mango and breadfruit trees for long-term food security in Grand'Anse",
			SubmittedDate: "2024-01-17",
			DeliveryDate:  "2024-01-19",
			Status:        StatusPending,
			Priority:      PriorityMedium,
			LocationID:    ptr[int64](6),
			AidDays:       ptr(2.3),
		},
		{
			ID:            7,
			Organization:  "World Food Programme",
			AidType:       "School Meals",
			Quantity:      "15,000 daily meals",
			Description:   "Nutritious school feeding program for children in La Gonâve",
			SubmittedDate: "2024-01-14",
			DeliveryDate:  "2024-01-16",
			Status:        StatusCompleted,
			Priority:      PriorityMedium,
			LocationID:    ptr[int64](4),
			AidDays:       ptr(3.2),
		},
		{
			ID:            8,
			Organization:  "PPAF",
			AidType:       "Clean Cookstoves",
			Quantity:      "300 bio-digesters",
			Description:   "Improved cooking technology to reduce deforestation and improve health",
			SubmittedDate: "2024-01-16",
			DeliveryDate:  "2024-01-18",
			Status:        StatusApproved,
			Priority:      PriorityHigh,
			LocationID:    ptr[int64](6),
			AidDays:       ptr(1.8),
		},
	}
}
