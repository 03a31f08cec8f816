package storage

// Re-export types from models package so callers can depend on storage alone.
import "github.com/ramonehamilton/mtg-inventory/internal/storage/models"

type (
	Edition      = models.Edition
	Color        = models.Color
	Format       = models.Format
	Rarity       = models.Rarity
	Artist       = models.Artist
	User         = models.User
	Card         = models.Card
	CardInstance = models.CardInstance
	CardFilter   = models.CardFilter
)
