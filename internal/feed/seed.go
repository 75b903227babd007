package feed

import "time"

// SeedPosts returns the fixture ground reports, timestamped relative to now.
func SeedPosts(now time.Time) []*Post {
	ago := func(d time.Duration) time.Time { return now.Add(-d).UTC() }

	return []*Post{
		{
			ID:           1,
			Organization: "World Food Programme",
			Location:     "Cité Soleil, Port-au-Prince",
			Content:      "Critical food insecurity levels detected in Cité Soleil. Immediate intervention needed for 85,000 families. Our emergency response team is coordinating with local partners for rapid deployment.",
			ImageURL:     "https://images.pexels.com/photos/6646918/pexels-photo-6646918.jpeg?auto=compress&cs=tinysrgb&w=400",
			Likes:        28,
			Replies: []Reply{
				{ID: 1, Organization: "Action Against Hunger", Content: "We have mobile nutrition units ready to assist. Can coordinate with your emergency response.", CreatedAt: ago(10 * time.Minute)},
				{ID: 2, Organization: "Meds & Food for Kids", Content: "Our therapeutic feeding center can accommodate 200 malnourished children. Please coordinate.", CreatedAt: ago(8 * time.Minute)},
			},
			Verified:  true,
			LikedBy:   []string{"user1", "user2", "user3"},
			CreatedAt: ago(15 * time.Minute),
		},
		{
			ID:           2,
			Organization: "Action Against Hunger",
			Location:     "Jean Rabel, Nord-Ouest",
			Content:      "Successfully distributed cash transfers to 1,200 families and provided seeds/tools for sustainable farming. Mobile nutrition screening ongoing in Jean Rabel area.",
			ImageURL:     "https://images.pexels.com/photos/6591307/pexels-photo-6591307.jpeg?auto=compress&cs=tinysrgb&w=400",
			Likes:        45,
			Replies: []Reply{
				{ID: 3, Organization: "FAO", Content: "Excellent work! We can provide additional agricultural training if needed.", CreatedAt: ago(45 * time.Minute)},
			},
			Flagged:   true,
			LikedBy:   []string{"user1", "user4", "user5"},
			CreatedAt: ago(time.Hour),
		},
		{
			ID:           3,
			Organization: "Meds & Food for Kids",
			Location:     "Port-au-Prince, Ouest",
			Content:      "Urgent: Severe acute malnutrition cases increasing in Port-au-Prince. Several children need immediate therapeutic feeding. Requesting backup nutrition specialists.",
			Likes:        22,
			Replies: []Reply{
				{ID: 4, Organization: "World Food Programme", Content: "Our nutrition team is en route. ETA 30 minutes.", CreatedAt: ago(105 * time.Minute)},
				{ID: 5, Organization: "PPAF", Content: "Sending our mobile health unit to assist with screening.", CreatedAt: ago(90 * time.Minute)},
			},
			Verified:  true,
			LikedBy:   []string{"user2", "user6"},
			CreatedAt: ago(2 * time.Hour),
		},
		{
			ID:           4,
			Organization: "FAO",
			Location:     "Artibonite Valley",
			Content:      "Food crisis alert for Artibonite Valley. Agricultural production severely impacted. Farmers advised to access emergency seed distribution at regional centers.",
			ImageURL:     "https://images.pexels.com/photos/552789/pexels-photo-552789.jpeg?auto=compress&cs=tinysrgb&w=400",
			Likes:        67,
			Replies: []Reply{
				{ID: 6, Organization: "Papaye Peasant Movement", Content: "Mobilizing 500 trained farmers to assist with emergency planting.", CreatedAt: ago(165 * time.Minute)},
			},
			Verified:  true,
			LikedBy:   []string{"user1", "user3", "user7", "user8"},
			CreatedAt: ago(3 * time.Hour),
		},
		{
			ID:           5,
			Organization: "Grown In Haiti",
			Location:     "Grand'Anse Department",
			Content:      "Establishing community food forests in Grand'Anse. Planting 1,000 fruit trees for long-term food security. Volunteers needed for tree planting activities.",
			Likes:        38,
			Replies: []Reply{
				{ID: 7, Organization: "PPAF", Content: "Sending 20 volunteers to help with reforestation efforts.", CreatedAt: ago(210 * time.Minute)},
				{ID: 8, Organization: "World Food Programme", Content: "We can provide nutritional education alongside tree planting.", CreatedAt: ago(195 * time.Minute)},
			},
			LikedBy:   []string{"user4", "user9"},
			CreatedAt: ago(4 * time.Hour),
		},
		{
			ID:           6,
			Organization: "Papaye Peasant Movement",
			Location:     "Croix-des-Bouquets, Ouest",
			Content:      "Training 200 farmers in climate-resilient agriculture techniques. Distributing drought-resistant seeds and promoting sustainable farming practices in Croix-des-Bouquets.",
			ImageURL:     "https://images.pexels.com/photos/416528/pexels-photo-416528.jpeg?auto=compress&cs=tinysrgb&w=400",
			Likes:        84,
			Replies: []Reply{
				{ID: 9, Organization: "FAO", Content: "Providing technical support and additional seed varieties. Great initiative!", CreatedAt: ago(270 * time.Minute)},
			},
			Verified:  true,
			LikedBy:   []string{"user2", "user5", "user10"},
			CreatedAt: ago(5 * time.Hour),
		},
	}
}
