package products

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"vortex/models"
	"vortex/utils"
)

// seedCatalog is the demo storefront inventory.
var seedCatalog = []models.Product{
	{
		Name:          "MacBook Pro M3",
		Description:   "Laptop profissional com chip M3, 16GB RAM, 512GB SSD",
		Price:         15999,
		OriginalPrice: 18999,
		Category:      "Notebooks",
		Image:         "https://images.unsplash.com/photo-1517336714731-489689fd1ca8?w=800",
		Stock:         15,
		Discount:      16,
		IsNew:         true,
		IsBestSeller:  true,
		Specs: map[string]string{
			"processor": "Apple M3",
			"ram":       "16GB",
			"storage":   "512GB SSD",
			"screen":    "14 polegadas",
		},
		Tags: []string{"premium", "apple", "laptop"},
	},
	{
		Name:          "iPhone 15 Pro Max",
		Description:   "Smartphone top de linha com câmera de 48MP e chip A17 Pro",
		Price:         9499,
		OriginalPrice: 10999,
		Category:      "Smartphones",
		Image:         "https://images.unsplash.com/photo-1592286927505-38f17ed177f8?w=800",
		Stock:         30,
		Discount:      14,
		IsNew:         true,
		IsBestSeller:  true,
		Specs: map[string]string{
			"processor": "A17 Pro",
			"ram":       "8GB",
			"storage":   "256GB",
			"camera":    "48MP",
		},
		Tags: []string{"premium", "apple", "5g"},
	},
	{
		Name:          "Sony WH-1000XM5",
		Description:   "Headphone premium com cancelamento de ruído ativo",
		Price:         1899,
		OriginalPrice: 2499,
		Category:      "Áudio",
		Image:         "https://images.unsplash.com/photo-1545127398-14699f92334b?w=800",
		Stock:         45,
		Discount:      24,
		IsBestSeller:  true,
		Specs: map[string]string{
			"bluetooth": "5.3",
			"battery":   "30h",
			"anc":       "Ativo",
		},
		Tags: []string{"premium", "wireless", "anc"},
	},
	{
		Name:          "Samsung Odyssey G9",
		Description:   "Monitor ultrawide curvo 49\" 240Hz para gamers",
		Price:         8999,
		OriginalPrice: 11999,
		Category:      "Monitores",
		Image:         "https://images.unsplash.com/photo-1527443224154-c4a3942d3acf?w=800",
		Stock:         8,
		Discount:      25,
		IsNew:         true,
		Specs: map[string]string{
			"size":       "49 polegadas",
			"resolution": "5120x1440",
			"refresh":    "240Hz",
			"panel":      "QLED",
		},
		Tags: []string{"gaming", "ultrawide", "curved"},
	},
	{
		Name:          "Logitech MX Master 3S",
		Description:   "Mouse ergonômico para produtividade com 8000 DPI",
		Price:         699,
		OriginalPrice: 899,
		Category:      "Periféricos",
		Image:         "https://images.unsplash.com/photo-1527864550417-7fd91fc51a46?w=800",
		Stock:         60,
		Discount:      22,
		IsBestSeller:  true,
		Specs: map[string]string{
			"dpi":     "8000",
			"buttons": "7",
			"battery": "70 dias",
		},
		Tags: []string{"wireless", "productivity"},
	},
	{
		Name:          "iPad Pro 12.9\" M2",
		Description:   "Tablet profissional com chip M2 e tela Liquid Retina XDR",
		Price:         11999,
		OriginalPrice: 13999,
		Category:      "Tablets",
		Image:         "https://images.unsplash.com/photo-1544244015-0df4b3ffc6b0?w=800",
		Stock:         20,
		Discount:      14,
		IsNew:         true,
		Specs: map[string]string{
			"processor": "Apple M2",
			"ram":       "16GB",
			"storage":   "512GB",
			"screen":    "12.9 polegadas",
		},
		Tags: []string{"premium", "apple", "professional"},
	},
	{
		Name:          "Dell XPS 13 Plus",
		Description:   "Ultrabook premium com Intel Core i7 13ª geração",
		Price:         8999,
		OriginalPrice: 10999,
		Category:      "Notebooks",
		Image:         "https://images.unsplash.com/photo-1593642632823-8f785ba67e45?w=800",
		Stock:         12,
		Discount:      18,
		Specs: map[string]string{
			"processor": "Intel Core i7-13700H",
			"ram":       "16GB",
			"storage":   "1TB SSD",
			"screen":    "13.4 polegadas",
		},
		Tags: []string{"premium", "ultrabook", "windows"},
	},
	{
		Name:          "Samsung Galaxy S24 Ultra",
		Description:   "Smartphone flagship com S Pen e câmera de 200MP",
		Price:         7999,
		OriginalPrice: 9499,
		Category:      "Smartphones",
		Image:         "https://images.unsplash.com/photo-1610945415295-d9bbf067e59c?w=800",
		Stock:         25,
		Discount:      16,
		IsNew:         true,
		IsBestSeller:  true,
		Specs: map[string]string{
			"processor": "Snapdragon 8 Gen 3",
			"ram":       "12GB",
			"storage":   "512GB",
			"camera":    "200MP",
		},
		Tags: []string{"flagship", "android", "5g"},
	},
	{
		Name:          "Keychron K8 Pro",
		Description:   "Teclado mecânico wireless com hot-swap switches",
		Price:         899,
		OriginalPrice: 1199,
		Category:      "Periféricos",
		Image:         "https://images.unsplash.com/photo-1587829741301-dc798b83add3?w=800",
		Stock:         35,
		Discount:      25,
		Specs: map[string]string{
			"layout":   "TKL",
			"switches": "Hot-swap",
			"battery":  "240h",
			"rgb":      "Per-key RGB",
		},
		Tags: []string{"mechanical", "wireless", "gaming"},
	},
	{
		Name:          "LG UltraGear 27GN950",
		Description:   "Monitor 4K 144Hz com HDR600 para gaming premium",
		Price:         4999,
		OriginalPrice: 5999,
		Category:      "Monitores",
		Image:         "https://images.unsplash.com/photo-1527443195645-1133f7f28990?w=800",
		Stock:         15,
		Discount:      17,
		Specs: map[string]string{
			"size":       "27 polegadas",
			"resolution": "3840x2160",
			"refresh":    "144Hz",
			"hdr":        "HDR600",
		},
		Tags: []string{"4k", "gaming", "hdr"},
	},
	{
		Name:          "AirPods Pro 2",
		Description:   "Fones wireless com ANC adaptativo e áudio espacial",
		Price:         1799,
		OriginalPrice: 2199,
		Category:      "Áudio",
		Image:         "https://images.unsplash.com/photo-1606841837239-c5a1a4a07af7?w=800",
		Stock:         50,
		Discount:      18,
		IsBestSeller:  true,
		Specs: map[string]string{
			"anc":     "Adaptativo",
			"battery": "6h (30h com case)",
			"audio":   "Espacial",
		},
		Tags: []string{"apple", "wireless", "anc"},
	},
	{
		Name:          "SSD Samsung 990 Pro 2TB",
		Description:   "SSD NVMe PCIe 4.0 ultra-rápido para desempenho extremo",
		Price:         1299,
		OriginalPrice: 1699,
		Category:      "Componentes",
		Image:         "https://images.unsplash.com/photo-1597872200969-2b65d56bd16b?w=800",
		Stock:         40,
		Discount:      24,
		Specs: map[string]string{
			"capacity":  "2TB",
			"interface": "PCIe 4.0 NVMe",
			"read":      "7450 MB/s",
			"write":     "6900 MB/s",
		},
		Tags: []string{"storage", "nvme", "performance"},
	},
	{
		Name:          "Canon EOS R6 Mark II",
		Description:   "Câmera mirrorless full-frame 24MP com IBIS",
		Price:         16999,
		OriginalPrice: 19999,
		Category:      "Câmeras",
		Image:         "https://images.unsplash.com/photo-1606982068106-8e21bdb3bfa6?w=800",
		Stock:         5,
		Discount:      15,
		IsNew:         true,
		Specs: map[string]string{
			"sensor": "24MP Full-Frame",
			"video":  "4K 60fps",
			"ibis":   "8 stops",
			"af":     "Dual Pixel II",
		},
		Tags: []string{"professional", "mirrorless", "video"},
	},
	{
		Name:          "Google Pixel 8 Pro",
		Description:   "Smartphone Google com IA avançada e câmera incrível",
		Price:         6499,
		OriginalPrice: 7499,
		Category:      "Smartphones",
		Image:         "https://images.unsplash.com/photo-1598327105666-5b89351aff97?w=800",
		Stock:         18,
		Discount:      13,
		IsNew:         true,
		Specs: map[string]string{
			"processor": "Google Tensor G3",
			"ram":       "12GB",
			"storage":   "256GB",
			"camera":    "50MP",
		},
		Tags: []string{"android", "ai", "camera"},
	},
	{
		Name:          "Razer BlackWidow V4 Pro",
		Description:   "Teclado mecânico gaming com display OLED e command dial",
		Price:         1499,
		OriginalPrice: 1899,
		Category:      "Periféricos",
		Image:         "https://images.unsplash.com/photo-1541140532154-b024d705b90a?w=800",
		Stock:         22,
		Discount:      21,
		Specs: map[string]string{
			"switches": "Razer Green",
			"display":  "OLED",
			"rgb":      "Chroma RGB",
		},
		Tags: []string{"gaming", "mechanical", "rgb"},
	},
	{
		Name:          "Microsoft Surface Pro 9",
		Description:   "2-em-1 versátil com processador Intel Core i7",
		Price:         9499,
		OriginalPrice: 11499,
		Category:      "Tablets",
		Image:         "https://images.unsplash.com/photo-1585399000684-d2f72660f092?w=800",
		Stock:         14,
		Discount:      17,
		Specs: map[string]string{
			"processor": "Intel Core i7",
			"ram":       "16GB",
			"storage":   "512GB",
			"screen":    "13 polegadas",
		},
		Tags: []string{"2-in-1", "windows", "professional"},
	},
	{
		Name:          "AMD Ryzen 9 7950X",
		Description:   "Processador 16-core/32-threads para desempenho extremo",
		Price:         3499,
		OriginalPrice: 4199,
		Category:      "Componentes",
		Image:         "https://images.unsplash.com/photo-1555680202-c7d7028d8f8d?w=800",
		Stock:         28,
		Discount:      17,
		Specs: map[string]string{
			"cores":   "16",
			"threads": "32",
			"boost":   "5.7 GHz",
			"tdp":     "170W",
		},
		Tags: []string{"cpu", "amd", "performance"},
	},
	{
		Name:          "Bose QuietComfort 45",
		Description:   "Headphone bluetooth com ANC e bateria de 24h",
		Price:         1599,
		OriginalPrice: 1999,
		Category:      "Áudio",
		Image:         "https://images.unsplash.com/photo-1546435770-a3e426bf472b?w=800",
		Stock:         32,
		Discount:      20,
		Specs: map[string]string{
			"anc":       "Ativo",
			"battery":   "24h",
			"bluetooth": "5.1",
		},
		Tags: []string{"wireless", "anc", "comfort"},
	},
	{
		Name:          "ASUS ROG Swift PG32UQ",
		Description:   "Monitor 4K 144Hz com G-Sync Ultimate para gaming",
		Price:         6999,
		OriginalPrice: 8499,
		Category:      "Monitores",
		Image:         "https://images.unsplash.com/photo-1585790050230-5dd28404f29a?w=800",
		Stock:         10,
		Discount:      18,
		Specs: map[string]string{
			"size":       "32 polegadas",
			"resolution": "3840x2160",
			"refresh":    "144Hz",
			"gsync":      "Ultimate",
		},
		Tags: []string{"4k", "gaming", "gsync"},
	},
	{
		Name:          "Steam Deck OLED 1TB",
		Description:   "Portátil gaming com tela OLED e 1TB de armazenamento",
		Price:         4499,
		OriginalPrice: 5299,
		Category:      "Gaming",
		Image:         "https://images.unsplash.com/photo-1625842268584-8f3296236761?w=800",
		Stock:         17,
		Discount:      15,
		IsNew:         true,
		Specs: map[string]string{
			"screen":  "7.4\" OLED",
			"storage": "1TB NVMe",
			"battery": "50Wh",
			"os":      "SteamOS",
		},
		Tags: []string{"gaming", "portable", "oled"},
	},
}

// Seed loads the demo catalog, skipping products whose name already
// exists so reseeding is safe.
func (s *Service) Seed(ctx context.Context) (created, skipped int, apiErr *utils.APIError) {
	existing, apiErr := s.all(ctx)
	if apiErr != nil {
		return 0, 0, apiErr
	}
	byName := map[string]bool{}
	for _, p := range existing {
		byName[p.Name] = true
	}

	for _, p := range seedCatalog {
		if byName[p.Name] {
			skipped++
			continue
		}
		p.ProductID = utils.GetUUID()
		p.CreatedAt = s.now()
		p.UpdatedAt = p.CreatedAt
		if apiErr := s.save(ctx, &p); apiErr != nil {
			return created, skipped, apiErr
		}
		log.Printf("seeded product: %s (%s)", p.Name, p.Category)
		created++
	}
	return created, skipped, nil
}

func (h *Handlers) SeedCatalog(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	created, skipped, apiErr := h.svc.Seed(ctx)
	if apiErr != nil {
		utils.RespondError(w, apiErr)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, utils.M{
		"created": created,
		"skipped": skipped,
		"total":   len(seedCatalog),
	})
}
