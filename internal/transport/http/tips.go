package http

import (
	"math/rand"
	"net/http"
	"sync"

	"github.com/go-chi/render"
)

// funTips are the rotating status lines the web UI shows while a batch runs.
var funTips = []string{
	"熬大夜，上大分！",
	"让数据说话，我们倾听！",
	"精准计算，智慧决策！",
	"数据不会说谎，但需要我们正确解读！",
	"每一分租金都值得精确计算！",
	"租赁分析的艺术在于细节！",
}

// PickTip returns one tip drawn from rng.
func PickTip(rng *rand.Rand) string {
	return funTips[rng.Intn(len(funTips))]
}

// tipSource guards the shared rng; rand.Rand is not safe for concurrent use.
type tipSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newTipSource(seed int64) *tipSource {
	return &tipSource{rng: rand.New(rand.NewSource(seed))}
}

func (t *tipSource) pick() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return PickTip(t.rng)
}

// GetTip handles GET /api/rental/tip
func (h *RentalHandler) GetTip(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"tip":    h.tips.pick(),
	})
}
