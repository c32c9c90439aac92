package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"StaffBot/model"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"
)

// firebaseRecord is a worker as stored in the Realtime Database. Keys are
// user ids, so Order carries the registration order.
type firebaseRecord struct {
	model.Worker
	Order int `json:"order"`
}

// FirebaseBackend stores the roster under one Realtime Database path.
type FirebaseBackend struct {
	app    *firebase.App
	client *db.Client
	root   string
}

// NewFirebaseBackend connects to the Realtime Database with a service
// account key and keeps the roster under root ("workers" when empty).
func NewFirebaseBackend(ctx context.Context, serviceAccountKeyPath, databaseURL, root string) (*FirebaseBackend, error) {
	opt := option.WithCredentialsFile(serviceAccountKeyPath)

	config := &firebase.Config{
		DatabaseURL: databaseURL,
	}
	app, err := firebase.NewApp(ctx, config, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting database client: %w", err)
	}

	if root == "" {
		root = "workers"
	}
	return &FirebaseBackend{
		app:    app,
		client: client,
		root:   root,
	}, nil
}

// Load reads every worker under the root path
func (fb *FirebaseBackend) Load(ctx context.Context) ([]model.Worker, error) {
	ref := fb.client.NewRef(fb.root)
	var records map[string]firebaseRecord
	if err := ref.Get(ctx, &records); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, fb.root, err)
		}
		return nil, fmt.Errorf("error reading workers: %w", err)
	}
	return recordsToWorkers(records), nil
}

// Save replaces the whole roster in a single write
func (fb *FirebaseBackend) Save(ctx context.Context, all []model.Worker, changed model.Worker) error {
	ref := fb.client.NewRef(fb.root)
	if err := ref.Set(ctx, workersToRecords(all)); err != nil {
		return fmt.Errorf("error writing workers: %w", err)
	}
	return nil
}

// Close is a no-op; the database client holds no connection to release.
func (fb *FirebaseBackend) Close() error {
	return nil
}

func workersToRecords(all []model.Worker) map[string]firebaseRecord {
	records := make(map[string]firebaseRecord, len(all))
	for i, w := range all {
		records[strconv.FormatInt(w.UserID, 10)] = firebaseRecord{Worker: w, Order: i}
	}
	return records
}

func recordsToWorkers(records map[string]firebaseRecord) []model.Worker {
	list := make([]firebaseRecord, 0, len(records))
	for key, rec := range records {
		if rec.UserID == 0 {
			if id, err := strconv.ParseInt(key, 10, 64); err == nil {
				rec.UserID = id
			}
		}
		list = append(list, rec)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Order != list[j].Order {
			return list[i].Order < list[j].Order
		}
		return list[i].UserID < list[j].UserID
	})

	workers := make([]model.Worker, 0, len(list))
	for _, rec := range list {
		workers = append(workers, rec.Worker)
	}
	return workers
}
