// Command seed loads a catalog definition from a YAML file into the
// database: users, suppliers, products with flavours, and each product's
// process stages and fields. Existing product codes are skipped so the
// seeder is safe to re-run.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/yungbote/doktrace-backend/internal/db"
	"github.com/yungbote/doktrace-backend/internal/logger"
	apperrors "github.com/yungbote/doktrace-backend/internal/pkg/errors"
	"github.com/yungbote/doktrace-backend/internal/repos"
	"github.com/yungbote/doktrace-backend/internal/types"
)

type seedFile struct {
	Users     []seedUser     `yaml:"users"`
	Suppliers []seedSupplier `yaml:"suppliers"`
	Products  []seedProduct  `yaml:"products"`
}

type seedUser struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

type seedSupplier struct {
	Name        string `yaml:"name"`
	ContactName string `yaml:"contact_name"`
	Phone       string `yaml:"phone"`
	Address     string `yaml:"address"`
}

type seedProduct struct {
	Name            string        `yaml:"name"`
	Code            string        `yaml:"code"`
	Category        string        `yaml:"category"`
	FlavourRequired *bool         `yaml:"flavour_required"`
	Flavours        []seedFlavour `yaml:"flavours"`
	Stages          []seedStage   `yaml:"stages"`
}

type seedFlavour struct {
	Name string `yaml:"name"`
	Code string `yaml:"code"`
}

type seedStage struct {
	Name     string      `yaml:"name"`
	IsQcGate bool        `yaml:"is_qc_gate"`
	Fields   []seedField `yaml:"fields"`
}

type seedField struct {
	Name      string   `yaml:"name"`
	LabelEn   string   `yaml:"label_en"`
	LabelHi   string   `yaml:"label_hi"`
	FieldType string   `yaml:"field_type"`
	Unit      string   `yaml:"unit"`
	MinValue  *float64 `yaml:"min_value"`
	MaxValue  *float64 `yaml:"max_value"`
	Required  bool     `yaml:"required"`
	Options   string   `yaml:"options"`
}

func main() {
	path := flag.String("file", "seed.yaml", "path to the catalog YAML file")
	flag.Parse()

	log, err := logger.New("development")
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	raw, err := os.ReadFile(*path)
	if err != nil {
		log.Fatal("Failed to read seed file", "path", *path, "error", err)
	}
	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		log.Fatal("Failed to parse seed file", "error", err)
	}

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres automigrate failed", "error", err)
	}
	theDB := pg.DB()

	userRepo := repos.NewUserRepo(theDB, log)
	supplierRepo := repos.NewSupplierRepo(theDB, log)
	productRepo := repos.NewProductRepo(theDB, log)
	flavourRepo := repos.NewFlavourRepo(theDB, log)
	stageRepo := repos.NewProcessStageRepo(theDB, log)
	fieldRepo := repos.NewStageFieldRepo(theDB, log)

	ctx := context.Background()

	for _, u := range seed.Users {
		if err := seedOneUser(ctx, userRepo, u); err != nil {
			log.Fatal("Failed to seed user", "email", u.Email, "error", err)
		}
	}
	for _, s := range seed.Suppliers {
		if err := seedOneSupplier(ctx, supplierRepo, s); err != nil {
			log.Fatal("Failed to seed supplier", "name", s.Name, "error", err)
		}
	}
	for _, p := range seed.Products {
		err := theDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return seedOneProduct(ctx, tx, productRepo, flavourRepo, stageRepo, fieldRepo, p)
		})
		if err != nil {
			log.Fatal("Failed to seed product", "code", p.Code, "error", err)
		}
	}

	log.Info("Seed complete",
		"users", len(seed.Users),
		"suppliers", len(seed.Suppliers),
		"products", len(seed.Products),
	)
}

func seedOneUser(ctx context.Context, userRepo repos.UserRepo, u seedUser) error {
	exists, err := userRepo.EmailExists(ctx, nil, u.Email)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	role := u.Role
	if role == "" {
		role = types.RoleOperator
	}
	_, err = userRepo.Create(ctx, nil, &types.User{
		ID:       uuid.New(),
		Name:     u.Name,
		Email:    u.Email,
		Password: string(hash),
		Role:     role,
		Active:   true,
	})
	return err
}

func seedOneSupplier(ctx context.Context, supplierRepo repos.SupplierRepo, s seedSupplier) error {
	_, err := supplierRepo.Create(ctx, nil, &types.Supplier{
		ID:          uuid.New(),
		Name:        s.Name,
		ContactName: s.ContactName,
		Phone:       s.Phone,
		Address:     s.Address,
		Active:      true,
	})
	return err
}

func seedOneProduct(
	ctx context.Context,
	tx *gorm.DB,
	productRepo repos.ProductRepo,
	flavourRepo repos.FlavourRepo,
	stageRepo repos.ProcessStageRepo,
	fieldRepo repos.StageFieldRepo,
	p seedProduct,
) error {
	if _, err := productRepo.GetByCode(ctx, tx, p.Code); err == nil {
		return nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	flavourRequired := true
	if p.FlavourRequired != nil {
		flavourRequired = *p.FlavourRequired
	}
	product, err := productRepo.Create(ctx, tx, &types.Product{
		ID:              uuid.New(),
		Name:            p.Name,
		Code:            p.Code,
		Category:        p.Category,
		FlavourRequired: flavourRequired,
		Active:          true,
	})
	if err != nil {
		return err
	}

	for _, f := range p.Flavours {
		if _, err := flavourRepo.Create(ctx, tx, &types.Flavour{
			ID:        uuid.New(),
			ProductID: product.ID,
			Name:      f.Name,
			Code:      f.Code,
			Active:    true,
		}); err != nil {
			return err
		}
	}

	for i, st := range p.Stages {
		stage, err := stageRepo.Create(ctx, tx, &types.ProcessStage{
			ID:        uuid.New(),
			ProductID: product.ID,
			Name:      st.Name,
			Order:     i + 1,
			IsQcGate:  st.IsQcGate,
			Version:   1,
			Active:    true,
		})
		if err != nil {
			return err
		}
		for j, fd := range st.Fields {
			fieldType := fd.FieldType
			if fieldType == "" {
				fieldType = types.FieldTypeText
			}
			if _, err := fieldRepo.Create(ctx, tx, &types.StageField{
				ID:        uuid.New(),
				StageID:   stage.ID,
				Name:      fd.Name,
				LabelEn:   fd.LabelEn,
				LabelHi:   fd.LabelHi,
				FieldType: fieldType,
				Unit:      fd.Unit,
				MinValue:  fd.MinValue,
				MaxValue:  fd.MaxValue,
				Required:  fd.Required,
				Options:   fd.Options,
				Order:     j + 1,
				Active:    true,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}
