package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"inbound-wms-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	InboundCollection = "inbound_requests"
	UserCollection    = "users"
	CounterCollection = "counters"
)

// inboundDocument thêm khóa seq tăng dần để GetAll trả đúng thứ tự tạo.
type inboundDocument struct {
	models.InboundRequest `bson:",inline"`
	Seq                   int64 `bson:"seq"`
}

// MongoRepository lưu mỗi yêu cầu nhập hàng thành một document, items/history/attachments nhúng bên trong.
type MongoRepository struct {
	coll     *mongo.Collection
	counters *mongo.Collection
	now      Clock
}

func NewMongoRepository(db *mongo.Database, now Clock) *MongoRepository {
	if now == nil {
		now = time.Now
	}
	return &MongoRepository{
		coll:     db.Collection(InboundCollection),
		counters: db.Collection(CounterCollection),
		now:      now,
	}
}

// nextSeq tăng bộ đếm của collection inbound_requests một cách nguyên tử.
func (r *MongoRepository) nextSeq(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": InboundCollection},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next inbound sequence: %w", err)
	}
	return counter.Seq, nil
}

func (r *MongoRepository) Create(ctx context.Context, req *models.InboundRequest) (*models.InboundRequest, error) {
	rec := req.Clone()
	rec.Prepare(r.now())

	seq, err := r.nextSeq(ctx)
	if err != nil {
		return nil, err
	}
	for attempt := 0; ; attempt++ {
		_, err := r.coll.InsertOne(ctx, inboundDocument{InboundRequest: *rec, Seq: seq})
		if err == nil {
			return rec, nil
		}
		// Trùng _id: sinh lại mã và thử lại vài lần.
		if !mongo.IsDuplicateKeyError(err) || attempt >= maxCreateAttempts-1 {
			return nil, fmt.Errorf("insert inbound request: %w", err)
		}
		rec.ID = models.NewRequestID(r.now())
	}
}

func (r *MongoRepository) GetAll(ctx context.Context) ([]models.InboundRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("query inbound requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []models.InboundRequest
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("decode inbound requests: %w", err)
	}
	if requests == nil {
		requests = []models.InboundRequest{}
	}
	return requests, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*models.InboundRequest, error) {
	var rec models.InboundRequest
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *MongoRepository) UpdateStatus(ctx context.Context, id string, status models.ApprovalStatus, reason string, at time.Time) (*models.InboundRequest, error) {
	rec, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := rec.ApprovalStatus
	if err := rec.ApplyStatus(status, reason, at); err != nil {
		return nil, fmt.Errorf("update status of %s: %w", id, err)
	}

	event := rec.History[len(rec.History)-1]
	// Compare-and-set trên trạng thái cũ: nếu request khác đã đổi trạng thái thì không khớp.
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "approvalStatus": previous},
		bson.M{
			"$set": bson.M{
				"approvalStatus": rec.ApprovalStatus,
				"memo":           rec.Memo,
				"updatedAt":      rec.UpdatedAt,
			},
			"$push": bson.M{"history": event},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("update inbound request: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrStaleUpdate
	}
	return rec, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete inbound request: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) AddAttachment(ctx context.Context, id string, attachment models.Attachment) (*models.InboundRequest, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var rec models.InboundRequest
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{"attachments": attachment},
			"$set":  bson.M{"updatedAt": attachment.UploadedAt},
		},
		opts,
	).Decode(&rec)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("add attachment: %w", err)
	}
	return &rec, nil
}

func (r *MongoRepository) Count(ctx context.Context) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	return int(n), err
}

// MongoUserRepository đọc/ghi collection "users".
type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(UserCollection)}
}

func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.coll.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	count, err := r.coll.CountDocuments(ctx, bson.M{"email": strings.ToLower(user.Email)})
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrUserExists
	}
	doc := *user
	doc.Email = strings.ToLower(doc.Email)
	_, err = r.coll.InsertOne(ctx, doc)
	return err
}
