// Package seed loads the demo users, categories and products.
package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"catalogadmin/internal/model"
)

// DefaultPassword is the password of every seeded user.
const DefaultPassword = "password"

// Result counts the rows a run created. Rows that already existed are not
// counted.
type Result struct {
	Users      int `json:"users"`
	Categories int `json:"categories"`
	Products   int `json:"products"`
}

type userSeed struct {
	name, email string
	role        model.Role
}

type productSeed struct {
	name, description, price, imageURL, category string
}

var users = []userSeed{
	{"Admin", "admin@example.com", model.RoleAdmin},
	{"Regular User", "user@example.com", model.RoleUser},
}

var categories = []string{
	"Processadores", "Teclados", "Mouses", "Headsets",
	"Memórias RAM", "HDDs", "SSDs NVMe", "Placas de Vídeo",
}

var products = []productSeed{
	{"AMD Ryzen 5 7600X", "6 núcleos, 12 threads, até 5.3GHz, Socket AM5, vídeo integrado.", "1199.99", "https://pavonesinfo.com.br/images/products/amd_ryzen5_7600x.jpg", "Processadores"},
	{"Intel Core i9-14900F", "24 núcleos, 32 threads, até 5.8GHz, LGA1700, sem vídeo integrado.", "3500.00", "https://pavonesinfo.com.br/images/products/intel_core_i9_14900f.jpg", "Processadores"},
	{"AMD Ryzen 7 5800X", "8 núcleos, 16 threads, até 4.7GHz, Socket AM4, sem vídeo integrado.", "1599.99", "https://pavonesinfo.com.br/images/products/amd_ryzen7_5800x.jpg", "Processadores"},
	{"Teclado Akko 5087S QMK", "Teclado mecânico com layout 87 teclas, RGB, compatível com QMK.", "469.99", "https://passeidireto.com/images/products/teclado_akko_5087s_qmk.jpg", "Teclados"},
	{"Teclado Multilaser TC208", "Teclado semi mecânico com iluminação Rainbow, layout ABNT2.", "127.78", "https://donatec.com.br/images/products/teclado_multilaser_tc208.jpg", "Teclados"},
	{"Mouse Redragon M718-RGB", "Mouse com 10000 DPI, RGB, 6 botões programáveis.", "97.50", "https://amazon.com/images/products/mouse_redragon_stormrage.jpg", "Mouses"},
	{"Mouse Logitech G403 Hero", "Mouse com sensor Hero 25K, até 25600 DPI, RGB.", "249.99", "https://passeidireto.com/images/products/mouse_logitech_g403_hero.jpg", "Mouses"},
	{"Headset Logitech G733", "Headset sem fio, som surround, iluminação RGB, microfone removível.", "849.99", "https://bytechnet.com.br/images/products/headset_logitech_g733.jpg", "Headsets"},
	{"Kingston Fury Beast 8GB DDR4", "Módulo de memória DDR4, 8GB, 3200MHz, CL16.", "229.00", "https://scribd.com/images/products/memoria_kingston_fury_beast_8gb.jpg", "Memórias RAM"},
	{"HD Seagate Barracuda 2TB", "Disco rígido de 2TB, 7200 RPM, SATA III, 3.5\".", "299.99", "https://pavonesinfo.com.br/images/products/hdd_seagate_barracuda_2tb.jpg", "HDDs"},
	{"SSD Kingston NV2 1TB", "SSD M.2 NVMe de 1TB, leitura até 3500MB/s, gravação até 2100MB/s.", "259.99", "https://pavonesinfo.com.br/images/products/ssd_kingston_nv2_1tb.jpg", "SSDs NVMe"},
	{"NVIDIA GeForce RTX 4070", "Placa de vídeo com 12GB GDDR6X, para jogos em 4K e Ray Tracing.", "3999.99", "https://pavonesinfo.com.br/images/products/gpu_nvidia_rtx_4070.jpg", "Placas de Vídeo"},
}

// Seeder inserts the demo data set. Running it again only fills in what is
// missing.
type Seeder struct {
	db *gorm.DB
}

// New creates a seeder on db.
func New(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run seeds users, categories and products in one transaction.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	var res Result

	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return res, fmt.Errorf("hash password: %w", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range users {
			user := model.User{Name: u.name, Email: u.email, PasswordHash: string(hashed), Role: u.role}
			r := tx.Where(model.User{Email: u.email}).Attrs(user).FirstOrCreate(&user)
			if r.Error != nil {
				return fmt.Errorf("seed user %s: %w", u.email, r.Error)
			}
			res.Users += int(r.RowsAffected)
		}

		ids := make(map[string]uint, len(categories))
		for _, name := range categories {
			category := model.Category{Name: name}
			r := tx.Where(model.Category{Name: name}).FirstOrCreate(&category)
			if r.Error != nil {
				return fmt.Errorf("seed category %s: %w", name, r.Error)
			}
			res.Categories += int(r.RowsAffected)
			ids[name] = category.ID
		}

		for _, p := range products {
			product := model.Product{
				Name:        p.name,
				Description: p.description,
				Price:       decimal.RequireFromString(p.price),
				CategoryID:  ids[p.category],
			}
			product.SetImageURL(p.imageURL)
			r := tx.Where(model.Product{Name: p.name}).Attrs(product).FirstOrCreate(&product)
			if r.Error != nil {
				return fmt.Errorf("seed product %s: %w", p.name, r.Error)
			}
			res.Products += int(r.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	log.Info().
		Int("users", res.Users).
		Int("categories", res.Categories).
		Int("products", res.Products).
		Msg("seed completed")
	return res, nil
}
