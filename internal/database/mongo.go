package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"communestats/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("document not found")

type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func NewMongoDB(uri, dbName string) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Printf("Connected to MongoDB at %s", uri)

	return &MongoDB{
		Client:   client,
		Database: client.Database(dbName),
	}, nil
}

func (m *MongoDB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.Client.Disconnect(ctx)
}

// UpsertDepartment replaces the document matching doc.Code and
// doc.CensusYear. It reports whether an existing document was replaced.
func (m *MongoDB) UpsertDepartment(collectionName string, doc models.DepartmentDocument) (bool, error) {
	return m.replaceOne(collectionName, departmentFilter(doc), doc)
}

// departmentFilter matches year-less documents when doc has no census year,
// so an unfiltered export never overwrites a year-stamped one.
func departmentFilter(doc models.DepartmentDocument) bson.M {
	if doc.CensusYear == "" {
		return bson.M{"Code": doc.Code, "CensusYear": bson.M{"$exists": false}}
	}
	return bson.M{"Code": doc.Code, "CensusYear": doc.CensusYear}
}

// UpsertCommune replaces the document for doc.Code and doc.CensusYear.
func (m *MongoDB) UpsertCommune(collectionName string, doc models.CommuneDocument) (bool, error) {
	return m.replaceOne(collectionName, bson.M{"Code": doc.Code, "CensusYear": doc.CensusYear}, doc)
}

func (m *MongoDB) replaceOne(collectionName string, filter bson.M, doc interface{}) (bool, error) {
	collection := m.Database.Collection(collectionName)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := collection.ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("failed to upsert into %s: %w", collectionName, err)
	}
	return res.MatchedCount > 0, nil
}

// FindDepartment returns the stored document for code, or ErrNotFound.
func (m *MongoDB) FindDepartment(collectionName, code string) (models.DepartmentDocument, error) {
	collection := m.Database.Collection(collectionName)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var doc models.DepartmentDocument
	err := collection.FindOne(ctx, bson.M{"Code": code}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return doc, fmt.Errorf("%w: department %s in %s", ErrNotFound, code, collectionName)
	}
	if err != nil {
		return doc, fmt.Errorf("failed to find department %s: %w", code, err)
	}
	return doc, nil
}

func (m *MongoDB) ListCollections() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	names, err := m.Database.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	return names, nil
}

// BackupCollection streams every document of the collection to writer and
// returns how many were written.
func (m *MongoDB) BackupCollection(collectionName string, writer io.Writer, format Format) (int, error) {
	collection := m.Database.Collection(collectionName)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	cursor, err := collection.Find(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to find documents: %w", err)
	}
	defer cursor.Close(ctx)

	count := 0
	for cursor.Next(ctx) {
		if err := EncodeDocument(writer, cursor.Current, format); err != nil {
			return count, err
		}
		count++
		if count%1000 == 0 {
			log.Printf("Backed up %d documents...", count)
		}
	}
	if err := cursor.Err(); err != nil {
		return count, fmt.Errorf("cursor error: %w", err)
	}

	log.Printf("Backup completed: %d documents from collection '%s'", count, collectionName)
	return count, nil
}

// RestoreCollection inserts the documents read from reader in batches of
// restoreBatchSize. The collection is dropped first when dropExisting is set.
func (m *MongoDB) RestoreCollection(collectionName string, reader io.Reader, format Format, dropExisting bool) (int, error) {
	collection := m.Database.Collection(collectionName)

	if dropExisting {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := collection.Drop(ctx); err != nil {
			log.Printf("Warning: failed to drop collection %s: %v", collectionName, err)
		}
		cancel()
	}

	batch := make([]interface{}, 0, restoreBatchSize)
	total := 0
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := m.insertBatch(collection, batch); err != nil {
			return err
		}
		total += len(batch)
		batch = batch[:0]
		return nil
	}

	err := DecodeDocuments(reader, format, func(doc bson.Raw) error {
		batch = append(batch, doc)
		if len(batch) >= restoreBatchSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return total, err
	}
	if err := flush(); err != nil {
		return total, err
	}

	log.Printf("Restore completed: %d documents into collection '%s'", total, collectionName)
	return total, nil
}

func (m *MongoDB) insertBatch(collection *mongo.Collection, documents []interface{}) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := collection.InsertMany(ctx, documents); err != nil {
		return fmt.Errorf("failed to insert batch: %w", err)
	}

	log.Printf("Inserted batch of %d documents", len(documents))
	return nil
}
