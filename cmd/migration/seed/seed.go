package seed

import (
	"time"

	"innkeep/config"
	"innkeep/internal/logger"
	. "innkeep/internal/models"
	"innkeep/internal/services"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func intPtr(i int) *int {
	return &i
}

// Seed loads a small demo hotel: one manager account, a handful of rooms and
// a mix of current and future stays so the board has something to show.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	hash, err := services.HashPassword("password")
	if err != nil {
		return log.Err("failed to hash seed password", err)
	}

	admin := Admin{
		Email:        "manager@example.com",
		PasswordHash: hash,
		Name:         "Demo Manager",
		Role:         RoleSuperadmin,
		CheckInHour:  intPtr(15),
		CheckOutHour: intPtr(11),
	}
	if err := db.Create(&admin).Error; err != nil {
		return log.Err("failed to seed admin", err)
	}

	rooms := []Room{
		{
			AdminID:     admin.ID,
			Name:        "101",
			Floor:       1,
			NightlyRate: decimal.NewFromInt(90),
			Amenities:   datatypes.JSON([]byte(`["wifi","tv"]`)),
		},
		{
			AdminID:     admin.ID,
			Name:        "102",
			Floor:       1,
			NightlyRate: decimal.NewFromInt(110),
			Amenities:   datatypes.JSON([]byte(`["wifi","tv","balcony"]`)),
		},
		{
			AdminID:      admin.ID,
			Name:         "201",
			Floor:        2,
			NightlyRate:  decimal.NewFromInt(150),
			Amenities:    datatypes.JSON([]byte(`["wifi","tv","minibar"]`)),
			CheckInHour:  intPtr(12),
			CheckOutHour: intPtr(10),
		},
	}
	for i := range rooms {
		if err := db.Create(&rooms[i]).Error; err != nil {
			return log.Err("failed to seed room", err, "room", rooms[i].Name)
		}
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	stays := []Stay{
		{
			RoomID:      rooms[0].ID,
			CheckIn:     today,
			CheckOut:    today.AddDate(0, 0, 2),
			GuestNames:  pq.StringArray{"Alex Novak"},
			TotalAmount: decimal.NewFromInt(180),
		},
		{
			RoomID:      rooms[1].ID,
			CheckIn:     today.AddDate(0, 0, 3),
			CheckOut:    today.AddDate(0, 0, 6),
			GuestNames:  pq.StringArray{"Sam Rivera", "Jo Rivera"},
			TotalAmount: decimal.NewFromInt(330),
		},
		{
			RoomID:      rooms[2].ID,
			CheckIn:     today.AddDate(0, 0, 1),
			CheckOut:    today.AddDate(0, 0, 4),
			GuestNames:  pq.StringArray{"Kim Larsen"},
			TotalAmount: decimal.NewFromInt(450),
		},
	}
	for i := range stays {
		if err := db.Create(&stays[i]).Error; err != nil {
			return log.Err("failed to seed stay", err)
		}
	}

	log.Info("Seed complete", "rooms", len(rooms), "stays", len(stays))
	return nil
}
