package dao

import (
	"context"
	"time"

	errorc "qrhub/pkg/core/err"
	"qrhub/pkg/core/logger"
	"qrhub/system/qrcode/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ScanEventMongoDao 扫码事件文档库实现
type ScanEventMongoDao struct {
	coll *mongo.Collection
	log  *logger.Log
	err  *errorc.ErrorBuilder
}

func NewScanEventMongoDao(db *mongo.Database, log *logger.Log) *ScanEventMongoDao {
	return &ScanEventMongoDao{
		coll: db.Collection(ScanEventCollection),
		log:  log.WithEntryName("ScanEventDao"),
		err:  errorc.NewErrorBuilder("ScanEventDao"),
	}
}

func (d *ScanEventMongoDao) Create(ctx context.Context, event *model.ScanEvent) error {
	if _, err := d.coll.InsertOne(ctx, event); err != nil {
		return d.err.New("写入扫码事件失败", err).DB()
	}
	return nil
}

func (d *ScanEventMongoDao) CountByQRCode(ctx context.Context, qrCodeID string) (int64, error) {
	count, err := d.coll.CountDocuments(ctx, bson.M{"qr_code_id": qrCodeID})
	if err != nil {
		return 0, d.err.New("统计扫码事件失败", err).DB()
	}
	return count, nil
}

func betweenFilter(qrCodeID string, from, to time.Time) bson.M {
	return bson.M{
		"qr_code_id": qrCodeID,
		"scanned_at": bson.M{"$gte": from, "$lt": to},
	}
}

func (d *ScanEventMongoDao) CountBetween(ctx context.Context, qrCodeID string, from, to time.Time) (int64, error) {
	count, err := d.coll.CountDocuments(ctx, betweenFilter(qrCodeID, from, to))
	if err != nil {
		return 0, d.err.New("统计扫码事件失败", err).DB()
	}
	return count, nil
}

func (d *ScanEventMongoDao) ScannedAtBetween(ctx context.Context, qrCodeID string, from, to time.Time) ([]time.Time, error) {
	opts := options.Find().SetProjection(bson.M{"scanned_at": 1})
	cursor, err := d.coll.Find(ctx, betweenFilter(qrCodeID, from, to), opts)
	if err != nil {
		return nil, d.err.New("查询扫码时间失败", err).DB()
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ScannedAt time.Time `bson:"scanned_at"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, d.err.New("解析扫码时间失败", err).DB()
	}

	times := make([]time.Time, 0, len(rows))
	for _, r := range rows {
		times = append(times, r.ScannedAt)
	}
	return times, nil
}

// groupCountPipeline 按字段分组计数，空串与缺失值不计入，按次数降序
func groupCountPipeline(qrCodeID string, column ScanColumn) mongo.Pipeline {
	col := string(column)
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"qr_code_id": qrCodeID, col: bson.M{"$nin": bson.A{"", nil}}}}},
		{{Key: "$group", Value: bson.M{"_id": "$" + col, "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}
}

func (d *ScanEventMongoDao) GroupCount(ctx context.Context, qrCodeID string, column ScanColumn) ([]model.Bucket, error) {
	cursor, err := d.coll.Aggregate(ctx, groupCountPipeline(qrCodeID, column))
	if err != nil {
		return nil, d.err.New("分组统计扫码事件失败", err).DB()
	}
	defer cursor.Close(ctx)

	buckets := make([]model.Bucket, 0)
	if err := cursor.All(ctx, &buckets); err != nil {
		return nil, d.err.New("解析分组统计失败", err).DB()
	}
	return buckets, nil
}

func distinctVisitorsPipeline(qrCodeID string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"qr_code_id": qrCodeID, "visitor_hash": bson.M{"$nin": bson.A{"", nil}}}}},
		{{Key: "$group", Value: bson.M{"_id": "$visitor_hash"}}},
		{{Key: "$count", Value: "visitors"}},
	}
}

func (d *ScanEventMongoDao) CountDistinctVisitors(ctx context.Context, qrCodeID string) (int64, error) {
	cursor, err := d.coll.Aggregate(ctx, distinctVisitorsPipeline(qrCodeID))
	if err != nil {
		return 0, d.err.New("统计独立访客失败", err).DB()
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Visitors int64 `bson:"visitors"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, d.err.New("解析独立访客失败", err).DB()
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Visitors, nil
}

// EnsureIndexes 创建 mongo 索引，短码唯一
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(QRCodeCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "deleted_at", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "scans", Value: -1}}},
	})
	if err != nil {
		return err
	}
	_, err = db.Collection(ScanEventCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "qr_code_id", Value: 1}, {Key: "scanned_at", Value: 1}}},
	})
	return err
}
