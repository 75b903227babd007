package location

import "time"

const seedTimeLayout = "2006-01-02 15:04"

func seedTime(s string) time.Time {
	t, err := time.Parse(seedTimeLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// SeedLocations returns the fixture locations loaded at startup by the
// in-memory backend.
func SeedLocations() []*Location {
	return []*Location{
		{
			ID:                  1,
			Name:                "Cité Soleil",
			Region:              "Ouest",
			Coordinates:         Point{Lat: 18.5944, Lng: -72.3074},
			AffectedFamilies:    85000,
			TotalPopulation:     340000,
			CurrentSupply:       0.8,
			PromisedSupply:      3.2,
			RequiredSupply:      DefaultRequiredSupply,
			UrgencyLevel:        UrgencyCritical,
			LastUpdated:         seedTime("2024-01-18 14:30"),
			ActiveOrganizations: []string{"World Food Programme", "Action Against Hunger", "Meds & Food for Kids"},
			Infrastructure:      Infrastructure{CommunicationAvailable: true},
			Demographics:        Demographics{Children: 102000, Elderly: 34000, Disabled: 13600, Pregnant: 6800},
			SpecificNeeds:       []string{"Emergency Food", "Clean Water", "Medical Supplies", "Security"},
		},
		{
			ID:                  2,
			Name:                "Croix-des-Bouquets",
			Region:              "Ouest",
			Coordinates:         Point{Lat: 18.5833, Lng: -72.2167},
			AffectedFamilies:    62000,
			TotalPopulation:     248000,
			CurrentSupply:       1.5,
			PromisedSupply:      4.8,
			RequiredSupply:      DefaultRequiredSupply,
			UrgencyLevel:        UrgencyCritical,
			LastUpdated:         seedTime("2024-01-18 13:45"),
			ActiveOrganizations: []string{"FAO", "Papaye Peasant Movement"},
			Infrastructure:      Infrastructure{RoadsAccessible: true, CommunicationAvailable: true, MedicalFacilityOperational: true},
			Demographics:        Demographics{Children: 74400, Elderly: 24800, Disabled: 9920, Pregnant: 4960},
			SpecificNeeds:       []string{"Food Supplies", "Agricultural Support", "Seeds"},
		},
		{
			ID:                  3,
			Name:                "Jean Rabel",
			Region:              "Nord-Ouest",
			Coordinates:         Point{Lat: 19.85, Lng: -73.1833},
			AffectedFamilies:    48000,
			TotalPopulation:     192000,
			CurrentSupply:       2.1,
			PromisedSupply:      5.5,
			RequiredSupply:      DefaultRequiredSupply,
			UrgencyLevel:        UrgencyHigh,
			LastUpdated:         seedTime("2024-01-18 12:20"),
			ActiveOrganizations: []string{"Action Against Hunger", "Grown In Haiti"},
			Infrastructure:      Infrastructure{RoadsAccessible: true, MedicalFacilityOperational: true},
			Demographics:        Demographics{Children: 57600, Elderly: 19200, Disabled: 7680, Pregnant: 3840},
			SpecificNeeds:       []string{"Cash Transfers", "Seeds and Tools", "Communication Equipment"},
		},
		{
			ID:                  4,
			Name:                "La Gonâve",
			Region:              "Ouest",
			Coordinates:         Point{Lat: 18.8333, Lng: -73.0},
			AffectedFamilies:    32000,
			TotalPopulation:     128000,
			CurrentSupply:       3.2,
			PromisedSupply:      6.8,
			RequiredSupply:      DefaultRequiredSupply,
			UrgencyLevel:        UrgencyMedium,
			LastUpdated:         seedTime("2024-01-18 11:15"),
			ActiveOrganizations: []string{"World Food Programme"},
			Infrastructure:      Infrastructure{RoadsAccessible: true, CommunicationAvailable: true, MedicalFacilityOperational: true},
			Demographics:        Demographics{Children: 38400, Elderly: 12800, Disabled: 5120, Pregnant: 2560},
			SpecificNeeds:       []string{"Food Distribution", "Transportation"},
		},
		{
			ID:                  5,
			Name:                "Artibonite Valley",
			Region:              "Artibonite",
			Coordinates:         Point{Lat: 19.4515, Lng: -72.689},
			AffectedFamilies:    92000,
			TotalPopulation:     368000,
			CurrentSupply:       0.5,
			PromisedSupply:      2.8,
			RequiredSupply:      DefaultRequiredSupply,
			UrgencyLevel:        UrgencyCritical,
			LastUpdated:         seedTime("2024-01-18 15:00"),
			ActiveOrganizations: []string{"FAO", "Papaye Peasant Movement", "World Food Programme"},
			Demographics:        Demographics{Children: 110400, Elderly: 36800, Disabled: 14720, Pregnant: 7360},
			SpecificNeeds:       []string{"Emergency Food", "Agricultural Recovery", "Infrastructure Repair"},
		},
		{
			ID:                  6,
			Name:                "Grand'Anse",
			Region:              "Grand'Anse",
			Coordinates:         Point{Lat: 18.65, Lng: -74.1167},
			AffectedFamilies:    68000,
			TotalPopulation:     272000,
			CurrentSupply:       1.8,
			PromisedSupply:      4.2,
			RequiredSupply:      DefaultRequiredSupply,
			UrgencyLevel:        UrgencyCritical,
			LastUpdated:         seedTime("2024-01-18 14:45"),
			ActiveOrganizations: []string{"Grown In Haiti", "PPAF"},
			Infrastructure:      Infrastructure{RoadsAccessible: true, CommunicationAvailable: true},
			Demographics:        Demographics{Children: 81600, Elderly: 27200, Disabled: 10880, Pregnant: 5440},
			SpecificNeeds:       []string{"Food Security", "Reforestation", "Clean Cookstoves"},
		},
		{
			ID:                  7,
			Name:                "Port-au-Prince",
			Region:              "Ouest",
			Coordinates:         Point{Lat: 18.5944, Lng: -72.3074},
			AffectedFamilies:    420000,
			TotalPopulation:     1680000,
			CurrentSupply:       2.5,
			PromisedSupply:      5.8,
			RequiredSupply:      DefaultRequiredSupply,
			UrgencyLevel:        UrgencyHigh,
			LastUpdated:         seedTime("2024-01-18 13:30"),
			ActiveOrganizations: []string{"World Food Programme", "Meds & Food for Kids", "Action Against Hunger"},
			Infrastructure:      Infrastructure{RoadsAccessible: true, CommunicationAvailable: true, MedicalFacilityOperational: true},
			Demographics:        Demographics{Children: 504000, Elderly: 168000, Disabled: 67200, Pregnant: 33600},
			SpecificNeeds:       []string{"Food Distribution", "Child Nutrition", "Urban Agriculture"},
		},
		{
			ID:                  8,
			Name:                "Nord-Ouest Department",
			Region:              "Nord-Ouest",
			Coordinates:         Point{Lat: 19.758, Lng: -72.2014},
			AffectedFamilies:    58000,
			TotalPopulation:     232000,
			CurrentSupply:       1.2,
			PromisedSupply:      3.6,
			RequiredSupply:      DefaultRequiredSupply,
			UrgencyLevel:        UrgencyCritical,
			LastUpdated:         seedTime("2024-01-18 14:15"),
			ActiveOrganizations: []string{"Action Against Hunger", "FAO"},
			Infrastructure:      Infrastructure{CommunicationAvailable: true, MedicalFacilityOperational: true},
			Demographics:        Demographics{Children: 69600, Elderly: 23200, Disabled: 9280, Pregnant: 4640},
			SpecificNeeds:       []string{"Emergency Food", "Road Access", "Agricultural Support"},
		},
	}
}
