package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"quiz-engine/internal/config"
	"quiz-engine/internal/database"
	"quiz-engine/internal/dto"
	"quiz-engine/internal/logger"
	"quiz-engine/internal/repository"
	"quiz-engine/internal/service"

	"go.uber.org/zap"
)

const seedFilePath = "configs/seed_data/initial_quiz_content.json"

type seedChoice struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type seedQuestion struct {
	Text        string       `json:"text"`
	Difficulty  string       `json:"difficulty"`
	Explanation string       `json:"explanation"`
	Choices     []seedChoice `json:"choices"`
}

type seedCategory struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Questions   []seedQuestion `json:"questions"`
}

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	log.Info("Starting initial data seeding process...")
	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		log.Fatal("Failed to connect to Oracle database", zap.Error(err))
	}
	defer db.Close()

	byteValue, err := os.ReadFile(seedFilePath)
	if err != nil {
		log.Fatal("Failed to read seed file", zap.String("path", seedFilePath), zap.Error(err))
	}

	var categories []seedCategory
	if err := json.Unmarshal(byteValue, &categories); err != nil {
		log.Fatal("Failed to unmarshal seed data", zap.Error(err))
	}
	log.Info("Loaded seed data", zap.Int("categories", len(categories)))

	questionRepo := repository.NewQuestionDatabaseAdapter(db)
	txManager := repository.NewTransactionManagerAdapter(db)
	// No cache during seeding; the API invalidates on its own writes.
	contentService := service.NewContentService(questionRepo, nil, txManager)

	for _, sc := range categories {
		if err := seedCategoryData(ctx, contentService, log, sc); err != nil {
			log.Error("Error seeding category", zap.String("category", sc.Name), zap.Error(err))
		}
	}
	log.Info("Initial data seeding process completed.")
}

func seedCategoryData(ctx context.Context, content service.ContentService, log *zap.Logger, sc seedCategory) error {
	log.Info("Processing category", zap.String("name", sc.Name))

	category, err := content.CreateCategory(ctx, &dto.CreateCategoryRequest{
		Name:        sc.Name,
		Description: sc.Description,
	})
	if err != nil {
		return fmt.Errorf("failed to create category %s: %w", sc.Name, err)
	}

	for _, q := range sc.Questions {
		choices := make([]dto.NewChoice, 0, len(q.Choices))
		for _, c := range q.Choices {
			choices = append(choices, dto.NewChoice{Text: c.Text, IsCorrect: c.IsCorrect})
		}

		questionID, err := content.CreateQuestion(ctx, &dto.CreateQuestionRequest{
			CategoryID:  category.ID,
			Text:        q.Text,
			Difficulty:  q.Difficulty,
			Explanation: q.Explanation,
			Choices:     choices,
		})
		if err != nil {
			return fmt.Errorf("failed to create question %q: %w", q.Text, err)
		}
		log.Debug("Seeded question", zap.String("question_id", questionID))
	}

	log.Info("Seeded category",
		zap.String("category_id", category.ID),
		zap.Int("questions", len(sc.Questions)),
	)
	return nil
}
