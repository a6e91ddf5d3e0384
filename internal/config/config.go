package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the full application configuration.
type Config struct {
	Server      ServerConfig
	WebSocket   WebSocketConfig
	CORS        CORSConfig
	Interaction InteractionConfig
	Room        RoomConfig
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// WebSocketConfig WebSocket connection settings
type WebSocketConfig struct {
	ReadBufferSize  int
	WriteBufferSize int
	WriteTimeout    time.Duration
}

// CORSConfig CORS settings
type CORSConfig struct {
	AllowOrigins string
	AllowHeaders string
}

// InteractionConfig tunables for the pointer interaction engine.
// Every participant must disambiguate gestures with the same thresholds.
type InteractionConfig struct {
	LongPressDelay    time.Duration // hold time before a carry pickup
	DoubleClickWindow time.Duration // max gap between clicks on the same object
	DragThresholdPx   float64       // movement that turns a press into a drag
	CarryCapacity     int           // max objects staged in the carry slot
	ZoomMin           float64
	ZoomMax           float64
	WorldExtent       float64 // conventional placement bounds, not enforced
}

// RoomConfig per-room relay settings
type RoomConfig struct {
	ChatHistorySize int
}

// Load reads configuration from the environment.
func Load() *Config {
	// .env is optional
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", ":8080"),
			ReadTimeout:  getDuration("READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration("WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getDuration("IDLE_TIMEOUT", 120*time.Second),
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  getInt("WS_READ_BUFFER_SIZE", 4096),
			WriteBufferSize: getInt("WS_WRITE_BUFFER_SIZE", 4096),
			WriteTimeout:    getDuration("WS_WRITE_TIMEOUT", 5*time.Second),
		},
		CORS: CORSConfig{
			AllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),
			AllowHeaders: getEnv("CORS_ALLOW_HEADERS", "Origin, Content-Type, Accept"),
		},
		Interaction: InteractionConfig{
			LongPressDelay:    getDuration("LONG_PRESS_DELAY", 250*time.Millisecond),
			DoubleClickWindow: getDuration("DOUBLE_CLICK_WINDOW", 300*time.Millisecond),
			DragThresholdPx:   getFloat("DRAG_THRESHOLD_PX", 5),
			CarryCapacity:     getInt("CARRY_CAPACITY", 100),
			ZoomMin:           getFloat("ZOOM_MIN", 0.2),
			ZoomMax:           getFloat("ZOOM_MAX", 3.0),
			WorldExtent:       getFloat("WORLD_EXTENT", 10000),
		},
		Room: RoomConfig{
			ChatHistorySize: getInt("ROOM_CHAT_HISTORY_SIZE", 50),
		},
	}
}

// getEnv reads a string env var with a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getInt reads an integer env var.
func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getFloat reads a float env var.
func getFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getDuration reads a duration env var. Bare numbers are seconds.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if !strings.ContainsAny(value, "smh") {
			if secs, err := strconv.Atoi(value); err == nil {
				return time.Duration(secs) * time.Second
			}
		}
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
