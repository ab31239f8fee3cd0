package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"ggmarket/internal/models"
	"ggmarket/internal/repositories/interfaces"
	"ggmarket/internal/utils"
)

type productRepository struct {
	collection *mongo.Collection
	cache      CacheService
}

func NewProductRepository(db *mongo.Database, cache CacheService) interfaces.ProductRepository {
	return &productRepository{
		collection: db.Collection("products"),
		cache:      cache,
	}
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	product.ID = primitive.NewObjectID()
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, product); err != nil {
		return storeError("create product", err)
	}

	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	cacheKey := utils.ProductCacheKey(id)
	if r.cache != nil {
		var cached models.Product
		if err := r.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("product")
		}
		return nil, storeError("get product", err)
	}

	if r.cache != nil {
		r.cache.Set(ctx, cacheKey, &product, utils.ProductListCacheTTL)
	}

	return &product, nil
}

func (r *productRepository) Find(ctx context.Context, filter *interfaces.ProductFilter, params *utils.PaginationParams) ([]*models.Product, int64, error) {
	query := bson.M{}
	if filter != nil {
		if filter.Category != "" {
			query["category"] = filter.Category
		}
		if filter.Game != "" {
			query["game"] = filter.Game
		}
		if filter.Status != "" {
			query["status"] = filter.Status
		}
		if !filter.SellerID.IsZero() {
			query["seller_id"] = filter.SellerID
		}
	}

	if params.Search != "" {
		searchFilter := params.GetSearchFilter([]string{"title", "description", "game"})
		if len(searchFilter) > 0 {
			query = bson.M{"$and": []bson.M{query, searchFilter}}
		}
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, storeError("count products", err)
	}

	cursor, err := r.collection.Find(ctx, query, params.GetSortOptions())
	if err != nil {
		return nil, 0, storeError("find products", err)
	}
	defer cursor.Close(ctx)

	var products []*models.Product
	for cursor.Next(ctx) {
		var product models.Product
		if err := cursor.Decode(&product); err != nil {
			return nil, 0, storeError("decode product", err)
		}
		products = append(products, &product)
	}

	return products, total, nil
}

func (r *productRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return storeError("update product", err)
	}

	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("product")
	}

	r.invalidate(ctx, id)

	return nil
}

func (r *productRepository) AddImage(ctx context.Context, id primitive.ObjectID, imageURL string) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{"images": imageURL},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return storeError("add product image", err)
	}

	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("product")
	}

	r.invalidate(ctx, id)

	return nil
}

func (r *productRepository) invalidate(ctx context.Context, id primitive.ObjectID) {
	if r.cache != nil {
		r.cache.Delete(ctx, utils.ProductCacheKey(id))
	}
}
