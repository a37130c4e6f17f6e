package ride

import (
	"context"
	"encoding/json"

	"ridetrail/internal/db"
	"ridetrail/internal/stream"

	"github.com/google/uuid"
)

type Service struct {
	db  db.Querier
	hub *stream.Hub
}

func NewService(querier db.Querier, hub *stream.Hub) *Service {
	return &Service{db: querier, hub: hub}
}

func (s *Service) Create(ctx context.Context, input Ride) (Ride, error) {
	input.ID = uuid.NewString()

	row := s.db.QueryRow(ctx, `
		INSERT INTO rides (id, user_id, title, start_time, end_time, distance, route_data, is_live)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at
	`, input.ID, input.UserID, input.Title, input.StartTime, input.EndTime, input.Distance, []byte(input.RouteData), input.IsLive)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Ride{}, err
	}

	if input.IsLive && s.hub != nil {
		payload, _ := json.Marshal(input)
		s.hub.Broadcast(input.ID, payload)
	}

	return input, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Ride, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, COALESCE(title,''), start_time, end_time, distance, route_data, is_live, created_at
		FROM rides WHERE user_id=$1
		ORDER BY start_time DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []Ride
	for rows.Next() {
		var r Ride
		var route []byte
		if err := rows.Scan(&r.ID, &r.UserID, &r.Title, &r.StartTime, &r.EndTime, &r.Distance, &route, &r.IsLive, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.RouteData = json.RawMessage(route)
		rides = append(rides, r)
	}
	return rides, nil
}

func (s *Service) Get(ctx context.Context, id string) (Ride, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, COALESCE(title,''), start_time, end_time, distance, route_data, is_live, created_at
		FROM rides WHERE id=$1
	`, id)
	var r Ride
	var route []byte
	if err := row.Scan(&r.ID, &r.UserID, &r.Title, &r.StartTime, &r.EndTime, &r.Distance, &route, &r.IsLive, &r.CreatedAt); err != nil {
		return Ride{}, err
	}
	r.RouteData = json.RawMessage(route)
	return r, nil
}

// PublishLivePoint fans a position update out to watchers of an in-progress
// ride. Points are broadcast only, never stored.
func (s *Service) PublishLivePoint(ctx context.Context, point LivePoint) error {
	if s.hub == nil {
		return nil
	}
	payload, err := json.Marshal(point)
	if err != nil {
		return err
	}
	s.hub.Broadcast(point.RideID, payload)
	return nil
}
