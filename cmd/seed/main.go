// Command seed replaces the database content with a demo park: accounts,
// catalog, one month of calendar, tariffs and a few reservations.
package main

import (
	"log"
	"time"
	_ "time/tzdata"

	"github.com/AurelieMous/projet-zombieland/internal/auth"
	"github.com/AurelieMous/projet-zombieland/internal/config"
	"github.com/AurelieMous/projet-zombieland/internal/database"
	"github.com/AurelieMous/projet-zombieland/internal/models"
	"github.com/AurelieMous/projet-zombieland/internal/reservation"
	"gorm.io/gorm"
)

const demoPassword = "Password123"

func main() {
	cfg := config.LoadConfig()
	db := database.Connect(cfg)

	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := clean(tx); err != nil {
			return err
		}
		return seed(tx, cfg)
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeding done, every account uses the password %q", demoPassword)
}

// clean empties the tables, dependents first.
func clean(tx *gorm.DB) error {
	all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
	for i := len(database.Models) - 1; i >= 0; i-- {
		if err := all.Delete(database.Models[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func seed(tx *gorm.DB, cfg *config.Config) error {
	hash, err := auth.HashPassword(demoPassword, cfg.BcryptCost)
	if err != nil {
		return err
	}

	admin := models.User{Email: "admin@zombieland.com", DisplayName: "AdminZombie", Role: models.RoleAdmin}
	jean := models.User{Email: "jean@zombieland.com", DisplayName: "JeanZ", Role: models.RoleClient}
	marie := models.User{Email: "marie@zombieland.com", DisplayName: "MarieZombie", Role: models.RoleClient}
	paul := models.User{Email: "paul@zombieland.com", DisplayName: "PaulSurvivor", Role: models.RoleClient}
	accounts := []*models.User{&admin, &jean, &marie, &paul}
	for _, u := range accounts {
		u.PasswordHash = hash
		u.IsActive = true
	}
	if err := tx.Create(accounts).Error; err != nil {
		return err
	}
	log.Printf("Created %d users", len(accounts))

	extremes := models.Category{Name: "Attractions extrêmes", Description: "Sensations fortes garanties pour les amateurs d'adrénaline"}
	immersives := models.Category{Name: "Expériences immersives", Description: "Plongez au cœur de l'apocalypse zombie"}
	familiales := models.Category{Name: "Activités familiales", Description: "Des attractions pour toute la famille"}
	spectacles := models.Category{Name: "Spectacles", Description: "Shows et animations en live"}
	restauration := models.Category{Name: "Restauration", Description: "Restaurants et points de vente thématiques"}
	categories := []*models.Category{&extremes, &immersives, &familiales, &spectacles, &restauration}
	if err := tx.Create(categories).Error; err != nil {
		return err
	}
	log.Printf("Created %d categories", len(categories))

	walkingDead := models.Attraction{
		Name:        "The Walking Dead Experience",
		Description: "Parcours immersif au cœur de l'apocalypse zombie avec effets spéciaux et acteurs",
		CategoryID:  immersives.ID,
		Images: []models.AttractionImage{
			{URL: "https://cdn.zombieland.com/images/walking-dead-1.jpg", AltText: "Vue extérieure de l'attraction The Walking Dead Experience"},
			{URL: "https://cdn.zombieland.com/images/walking-dead-2.jpg", AltText: "Intérieur sombre avec zombies"},
		},
	}
	ride := models.Attraction{
		Name:        "Zombie Apocalypse Ride",
		Description: "Montagnes russes extrêmes dans un décor post-apocalyptique",
		CategoryID:  extremes.ID,
		Images:      []models.AttractionImage{{URL: "https://cdn.zombieland.com/images/ride-1.jpg", AltText: "Montagnes russes Zombie Apocalypse"}},
	}
	maze := models.Attraction{
		Name:        "Labyrinthe des Infectés",
		Description: "Trouvez la sortie avant que les zombies ne vous rattrapent",
		CategoryID:  familiales.ID,
		Images:      []models.AttractionImage{{URL: "https://cdn.zombieland.com/images/maze-1.jpg", AltText: "Entrée du labyrinthe des infectés"}},
	}
	arena := models.Attraction{
		Name:        "Arena des Morts-Vivants",
		Description: "Grand spectacle avec effets pyrotechniques et cascades",
		CategoryID:  spectacles.ID,
		Images:      []models.AttractionImage{{URL: "https://cdn.zombieland.com/images/arena-1.jpg", AltText: "Arena des Morts-Vivants, vue du spectacle"}},
	}
	attractions := []*models.Attraction{&walkingDead, &ride, &maze, &arena}
	if err := tx.Create(attractions).Error; err != nil {
		return err
	}
	log.Printf("Created %d attractions", len(attractions))

	activities := []models.Activity{
		{Name: "Escape Game Zombie", Description: "60 minutes pour trouver le remède et sauver l'humanité", CategoryID: immersives.ID, AttractionID: &walkingDead.ID},
		{Name: "Laser Game Zombie", Description: "Affrontez les zombies en équipe avec des lasers", CategoryID: extremes.ID},
		{Name: "Atelier Maquillage Zombie", Description: "Transformez-vous en zombie avec nos maquilleurs professionnels", CategoryID: familiales.ID},
		{Name: "Spectacle Survie", Description: "Show avec cascades et combats contre les zombies", CategoryID: spectacles.ID},
		{Name: "Restaurant Le Bunker", Description: "Restaurant thématique dans un bunker post-apocalyptique", CategoryID: restauration.ID},
	}
	if err := tx.Create(&activities).Error; err != nil {
		return err
	}
	log.Printf("Created %d activities", len(activities))

	dates := december(time.Now().In(cfg.Location).Year())
	if err := tx.Create(&dates).Error; err != nil {
		return err
	}
	log.Printf("Created %d park dates", len(dates))

	etudiant := models.Price{Label: "Tarif Étudiant", Type: models.PriceEtudiant, Amount: 2999, DurationDays: 1}
	adulte := models.Price{Label: "Tarif Adulte", Type: models.PriceAdulte, Amount: 4500, DurationDays: 1}
	groupe := models.Price{Label: "Tarif Groupe (10+ personnes)", Type: models.PriceGroupe, Amount: 3500, DurationDays: 1}
	pass2j := models.Price{Label: "Pass 2 jours", Type: models.PricePass2J, Amount: 7999, DurationDays: 2}
	groupe20 := models.Price{Label: "Tarif Groupe Premium (20+ personnes)", Type: models.PriceGroupe, Amount: 3000, DurationDays: 1}
	prices := []*models.Price{&etudiant, &adulte, &groupe, &pass2j, &groupe20}
	if err := tx.Create(prices).Error; err != nil {
		return err
	}
	log.Printf("Created %d prices", len(prices))

	var open []models.ParkDate
	for _, d := range dates {
		if d.IsOpen {
			open = append(open, d)
		}
	}
	first, second := open[0], open[1]

	now := time.Now()
	book := func(user models.User, date models.ParkDate, price models.Price, tickets int, status models.ReservationStatus) models.Reservation {
		now = now.Add(time.Millisecond)
		return models.Reservation{
			ReservationNumber: reservation.NewNumber(cfg.ReservationPrefix, now),
			UserID:            user.ID,
			DateID:            date.ID,
			PriceID:           price.ID,
			TicketsCount:      tickets,
			TotalAmount:       price.Amount.Times(tickets),
			Status:            status,
		}
	}
	reservations := []models.Reservation{
		book(jean, first, adulte, 2, models.StatusConfirmed),
		book(marie, second, etudiant, 1, models.StatusPending),
		book(jean, second, pass2j, 1, models.StatusConfirmed),
		book(paul, first, groupe, 12, models.StatusConfirmed),
	}
	if err := tx.Create(&reservations).Error; err != nil {
		return err
	}
	log.Printf("Created %d reservations", len(reservations))

	return nil
}

// december lists the days of December, closed on Mondays and Tuesdays.
func december(year int) []models.ParkDate {
	christmas := "Horaires étendus pour Noël (9h-23h)"
	newYear := "Soirée spéciale Nouvel An (10h-2h)"

	var dates []models.ParkDate
	for d := time.Date(year, time.December, 1, 0, 0, 0, 0, time.UTC); d.Month() == time.December; d = d.AddDate(0, 0, 1) {
		pd := models.ParkDate{
			Day:    d,
			IsOpen: d.Weekday() != time.Monday && d.Weekday() != time.Tuesday,
		}
		switch d.Day() {
		case 25:
			pd.Notes = &christmas
		case 31:
			pd.Notes = &newYear
		}
		dates = append(dates, pd)
	}
	return dates
}
