package words

import (
	"context"

	"github.com/lexikon-app/lexikon/model"
	"gorm.io/gorm"
)

// ListFilter narrows word queries beyond the authorization scope.
type ListFilter struct {
	CategoryID *uint
	Learned    *bool
}

type WordRepository interface {
	// List returns words matching both the scope filter and the list filter.
	List(ctx context.Context, scopeWhere map[string]any, filter ListFilter) ([]*model.Word, error)
	GetByID(ctx context.Context, scopeWhere map[string]any, wordID uint) (*model.Word, error)
	Create(ctx context.Context, word *model.Word) error
	Save(ctx context.Context, word *model.Word) error
	Delete(ctx context.Context, wordID uint) error
}

type CategoryRepository interface {
	List(ctx context.Context) ([]*model.Category, error)
	GetByID(ctx context.Context, categoryID uint) (*model.Category, error)
}

type wordRepository struct {
	db *gorm.DB
}

func applyListFilter(db *gorm.DB, filter ListFilter) *gorm.DB {
	if filter.CategoryID != nil {
		db = db.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Learned != nil {
		db = db.Where("learned = ?", *filter.Learned)
	}
	return db
}

func (r *wordRepository) List(ctx context.Context, scopeWhere map[string]any, filter ListFilter) ([]*model.Word, error) {
	var words []*model.Word
	db := r.db.WithContext(ctx).Where(scopeWhere)
	err := applyListFilter(db, filter).Order("created_at DESC").Find(&words).Error
	return words, err
}

func (r *wordRepository) GetByID(ctx context.Context, scopeWhere map[string]any, wordID uint) (*model.Word, error) {
	var word model.Word
	err := r.db.WithContext(ctx).Where(scopeWhere).First(&word, "id = ?", wordID).Error
	if err != nil {
		return nil, err
	}
	return &word, nil
}

func (r *wordRepository) Create(ctx context.Context, word *model.Word) error {
	return r.db.WithContext(ctx).Create(word).Error
}

func (r *wordRepository) Save(ctx context.Context, word *model.Word) error {
	return r.db.WithContext(ctx).Save(word).Error
}

func (r *wordRepository) Delete(ctx context.Context, wordID uint) error {
	return r.db.WithContext(ctx).Delete(&model.Word{}, "id = ?", wordID).Error
}

type categoryRepository struct {
	db *gorm.DB
}

func (r *categoryRepository) List(ctx context.Context) ([]*model.Category, error) {
	var categories []*model.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) GetByID(ctx context.Context, categoryID uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", categoryID).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func NewWordRepository(db *gorm.DB) WordRepository {
	return &wordRepository{db: db}
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}
