//go:build ignore
// +build ignore

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Должны совпадать с domain.StreamTripLink / domain.StreamTripLinked
const (
	linkStream   = "stream:trip:link"
	linkedStream = "stream:trip:linked"
)

type location struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

type item struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Location  *location `json:"location,omitempty"`
}

type day struct {
	Date       string `json:"date"`
	DayIndex   int    `json:"day_index"`
	Activities []item `json:"activities"`
}

type trip struct {
	UserID      string `json:"user_id"`
	TripID      string `json:"trip_id"`
	TripName    string `json:"trip_name"`
	Destination string `json:"destination"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Days        []day  `json:"days"`
}

type linkTripEvent struct {
	RequestID uuid.UUID `json:"request_id"`
	Trip      trip      `json:"trip"`
}

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Тестовая поездка: один день в Шанхае
	event := linkTripEvent{
		RequestID: uuid.New(),
		Trip: trip{
			UserID:      "test-user",
			TripID:      uuid.NewString(),
			TripName:    "上海一日游",
			Destination: "上海",
			StartDate:   "2026-05-01",
			EndDate:     "2026-05-01",
			Days: []day{{
				Date:     "2026-05-01",
				DayIndex: 1,
				Activities: []item{
					{ID: "a1", Type: "activity", Title: "外滩散步", StartTime: "09:00:00", EndTime: "10:30:00",
						Location: &location{Name: "外滩", Address: "中山东一路"}},
					{ID: "a2", Type: "activity", Title: "豫园", StartTime: "11:00:00", EndTime: "12:30:00",
						Location: &location{Name: "豫园", Address: "福佑路168号"}},
					{ID: "a3", Type: "activity", Title: "东方明珠", StartTime: "14:00:00", EndTime: "16:00:00",
						Location: &location{Name: "东方明珠广播电视塔"}},
				},
			}},
		},
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	// Последний ID стрима результатов до публикации
	lastID := "0"
	if msgs, err := client.XRevRangeN(ctx, linkedStream, "+", "-", 1).Result(); err == nil && len(msgs) > 0 {
		lastID = msgs[0].ID
	}

	result, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: linkStream,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("✅ Event published successfully!\n")
	fmt.Printf("   Stream: stream:trip:link\n")
	fmt.Printf("   Message ID: %s\n", result)
	fmt.Printf("   Request ID: %s\n", event.RequestID)

	fmt.Printf("\n⏳ Waiting for response in stream:trip:linked...\n")

	deadline := time.Now().Add(2 * time.Minute)
	for time.Now().Before(deadline) {
		results, err := client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{linkedStream, lastID},
			Count:   10,
			Block:   time.Second,
		}).Result()
		if err != nil {
			continue
		}

		for _, stream := range results {
			for _, msg := range stream.Messages {
				lastID = msg.ID

				dataStr, ok := msg.Values["data"].(string)
				if !ok {
					continue
				}

				var response map[string]interface{}
				if err := json.Unmarshal([]byte(dataStr), &response); err != nil {
					continue
				}

				if response["request_id"] == event.RequestID.String() {
					fmt.Printf("\n✅ Response received!\n")
					prettyJSON, _ := json.MarshalIndent(response, "", "  ")
					fmt.Printf("%s\n", prettyJSON)
					return
				}
			}
		}
	}

	fmt.Println("❌ Timeout waiting for response")
}
