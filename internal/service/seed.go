package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/templequest/temple-api/internal/domain"
)

type sampleTemple struct {
	name        string
	location    string
	state       string
	deity       string
	description string
	history     string
	timings     string
	dressCode   string
	imageURL    string
	festivals   []string
}

var sampleCatalog = []sampleTemple{
	{
		name:        "Brihadeeswarar Temple",
		location:    "Thanjavur",
		state:       "Tamil Nadu",
		deity:       "Lord Shiva",
		description: "A UNESCO World Heritage Site and one of the largest temples in India, built by Raja Raja Chola I.",
		history:     "Built in 1010 CE by Raja Raja Chola I, this magnificent temple is a masterpiece of Dravidian architecture.",
		timings:     "6:00 AM - 12:30 PM, 4:00 PM - 8:30 PM",
		dressCode:   "Traditional attire recommended. Men: Dhoti or pants with shirt. Women: Saree or salwar kameez.",
		festivals:   []string{"Maha Shivaratri", "Panguni Uthiram", "Arudra Darshanam"},
		imageURL:    "https://images.unsplash.com/photo-1566915682737-3e97a7eed93b",
	},
	{
		name:        "Golden Temple",
		location:    "Amritsar",
		state:       "Punjab",
		deity:       "Guru Granth Sahib",
		description: "The holiest Gurdwara of Sikhism, known for its stunning golden architecture.",
		history:     "Founded by Guru Ram Das in 1577, the temple is surrounded by a sacred pool and represents equality and brotherhood.",
		timings:     "Open 24 hours",
		dressCode:   "Head covering mandatory. Modest clothing required.",
		festivals:   []string{"Guru Nanak Jayanti", "Baisakhi", "Diwali"},
		imageURL:    "https://images.unsplash.com/photo-1668605105277-87816e3e2aab",
	},
	{
		name:        "Meenakshi Temple",
		location:    "Madurai",
		state:       "Tamil Nadu",
		deity:       "Goddess Meenakshi and Lord Sundareswarar",
		description: "A historic Hindu temple with stunning gopurams and intricate carvings.",
		history:     "Dating back to the 6th century BCE, this temple is dedicated to Goddess Parvati and Lord Shiva.",
		timings:     "5:00 AM - 12:30 PM, 4:00 PM - 9:30 PM",
		dressCode:   "Traditional attire preferred. Shoes must be removed.",
		festivals:   []string{"Meenakshi Thirukalyanam", "Float Festival", "Avani Moola Festival"},
		imageURL:    "https://images.unsplash.com/photo-1741358706805-a5935a200a5c",
	},
	{
		name:        "Konark Sun Temple",
		location:    "Konark",
		state:       "Odisha",
		deity:       "Surya (Sun God)",
		description: "A 13th-century temple shaped like a giant chariot with intricately carved stone wheels.",
		history:     "Built in 1250 CE by King Narasimhadeva I, this UNESCO World Heritage Site is an architectural marvel.",
		timings:     "6:00 AM - 8:00 PM",
		dressCode:   "Casual attire acceptable. Respectful clothing recommended.",
		festivals:   []string{"Konark Dance Festival", "Magha Saptami"},
		imageURL:    "https://images.unsplash.com/photo-1663660408539-c9cbfcedd241",
	},
	{
		name:        "Kedarnath Temple",
		location:    "Kedarnath",
		state:       "Uttarakhand",
		deity:       "Lord Shiva",
		description: "One of the twelve Jyotirlingas located in the Himalayas at an altitude of 3,583 meters.",
		history:     "Dating back to over 1,000 years, this temple is part of the Char Dham pilgrimage.",
		timings:     "6:00 AM - 7:00 PM (Open only from April/May to November)",
		dressCode:   "Warm clothing essential. Traditional attire for prayers.",
		festivals:   []string{"Maha Shivaratri", "Shravan Month Celebrations"},
		imageURL:    "https://images.unsplash.com/photo-1600476407259-0402ce168978",
	},
	{
		name:        "Tirupati Balaji Temple",
		location:    "Tirumala",
		state:       "Andhra Pradesh",
		deity:       "Lord Venkateswara",
		description: "One of the richest and most visited temples in the world.",
		history:     "The temple has been mentioned in ancient scriptures and is believed to be over 2,000 years old.",
		timings:     "2:30 AM - 1:00 AM (Open almost 24 hours)",
		dressCode:   "Traditional attire mandatory. Men: Dhoti or pants with shirt. Women: Saree or churidar.",
		festivals:   []string{"Brahmotsavam", "Vaikunta Ekadasi", "Rathasaptami"},
		imageURL:    "https://images.pexels.com/photos/1007425/pexels-photo-1007425.jpeg",
	},
}

// SampleTemples builds fresh records for the startup catalog. Creation times
// step by one millisecond so listings keep the catalog order.
func SampleTemples() ([]*domain.Temple, error) {
	base := time.Now().UTC()
	temples := make([]*domain.Temple, 0, len(sampleCatalog))
	for i, s := range sampleCatalog {
		t := &domain.Temple{
			ID:          uuid.New(),
			Name:        s.name,
			Location:    s.location,
			State:       s.state,
			Deity:       s.deity,
			Description: s.description,
			History:     s.history,
			Timings:     s.timings,
			DressCode:   s.dressCode,
			ImageURL:    s.imageURL,
			CreatedAt:   base.Add(time.Duration(i) * time.Millisecond),
		}
		if err := t.SetFestivals(s.festivals); err != nil {
			return nil, err
		}
		temples = append(temples, t)
	}
	return temples, nil
}
