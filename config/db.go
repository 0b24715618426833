package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hotel-booking/models"
)

// DB is set by ConnectDatabase for code that cannot take it as a parameter.
var DB *gorm.DB

const seedLocation = "Luxury Hotel Hanoi"

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}
	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}
	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN(cfg Config) (string, error) {
	raw := strings.TrimSpace(cfg.MySQLURL)
	if raw == "" {
		raw = strings.TrimSpace(cfg.DatabaseURL)
	}
	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName,
	), nil
}

func gormLogger(production bool) logger.Interface {
	level := logger.Info
	if production {
		level = logger.Warn
	}
	std, err := zap.NewStdLogAt(zap.L().Named("gorm"), zapcore.DebugLevel)
	if err != nil {
		std = zap.NewStdLog(zap.L().Named("gorm"))
	}
	return logger.New(std, logger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

// Open connects to the configured driver without migrating.
func Open(cfg Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	case "mysql", "":
		dsn, err := resolveMySQLDSN(cfg)
		if err != nil {
			return nil, err
		}
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	return gorm.Open(dialector, &gorm.Config{Logger: gormLogger(cfg.IsProduction())})
}

// Migrate creates or updates every table the service uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.Room{},
		&models.Booking{},
		&models.WishlistItem{},
	)
}

func ConnectDatabase(cfg Config) (*gorm.DB, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if cfg.SeedRooms {
		if err := SeedDatabase(db); err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
	}
	DB = db
	return db, nil
}

type seedRoomType struct {
	Type      models.RoomType
	Label     string
	Price     float64
	MaxGuests int
	Amenities []string
}

var seedRoomTypes = []seedRoomType{
	{models.RoomTypeSingle, "Single Room", 800000, 1, []string{"WiFi", "TV", "Air conditioning", "Private bathroom"}},
	{models.RoomTypeDouble, "Double Room", 1500000, 2, []string{"WiFi", "Smart TV", "Air conditioning", "Mini fridge", "Balcony"}},
	{models.RoomTypeSuite, "Suite", 3000000, 4, []string{"WiFi", "Smart TV", "Air conditioning", "Living room", "Bathtub", "Coffee machine"}},
	{models.RoomTypePresidential, "Presidential Suite", 12000000, 6, []string{"WiFi", "Smart TV", "Air conditioning", "Private garden", "Sauna", "Full kitchen"}},
}

// SeedDatabase fills an empty rooms table with three floors of each room type.
func SeedDatabase(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Room{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		zap.L().Info("rooms already seeded", zap.Int64("count", count))
		return nil
	}

	rooms := make([]models.Room, 0, 3*len(seedRoomTypes))
	for floor := 1; floor <= 3; floor++ {
		for i, rt := range seedRoomTypes {
			number := fmt.Sprintf("%d%02d", floor, i+1)
			rooms = append(rooms, models.Room{
				Name:        fmt.Sprintf("Room %s - %s", number, rt.Label),
				Description: fmt.Sprintf("%s on floor %d with city views.", rt.Label, floor),
				Price:       rt.Price + float64(floor-1)*100000,
				Images:      []string{fmt.Sprintf("https://picsum.photos/seed/room%s/800/600", number)},
				Location:    seedLocation,
				Amenities:   rt.Amenities,
				Rating:      4.0 + float64(i)*0.25,
				Type:        rt.Type,
				MaxGuests:   rt.MaxGuests,
				IsAvailable: floor != 3 || i%2 == 0,
			})
		}
	}
	if err := db.Create(&rooms).Error; err != nil {
		return err
	}
	zap.L().Info("rooms seeded", zap.Int("count", len(rooms)))
	return nil
}
