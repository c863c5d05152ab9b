package gpt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/ottobar/internal/domain"
	"github.com/hammamikhairi/ottobar/internal/drink"
	"github.com/hammamikhairi/ottobar/internal/logger"
)

// fakeServer answers every chat completion with reply and records the
// last request it saw.
type fakeServer struct {
	reply  string
	status int

	mu   sync.Mutex
	last openai.ChatCompletionRequest
}

func (f *fakeServer) request() openai.ChatCompletionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/v1/chat/completions" {
		http.NotFound(w, r)
		return
	}
	var req openai.ChatCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	f.last = req
	f.mu.Unlock()
	if f.status != 0 {
		http.Error(w, `{"error":{"message":"boom"}}`, f.status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
		ID:     "chatcmpl-test",
		Object: "chat.completion",
		Model:  req.Model,
		Choices: []openai.ChatCompletionChoice{{
			Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: f.reply},
			FinishReason: openai.FinishReasonStop,
		}},
	})
}

func setupBartender(t *testing.T, f *fakeServer) *Bartender {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	log := logger.New(logger.LevelOff, nil)
	client := NewClient("test-key", log, WithBaseURL(srv.URL+"/v1"), WithModel("test-model"))
	return NewBartender(client, log)
}

func TestGenerate(t *testing.T) {
	f := &fakeServer{reply: `{"name":"月光","ingredients":[{"name":"金酒(Gin)","amount":"30ml"}],"instructions":["倒入30ml金酒"]}`}
	b := setupBartender(t, f)

	recipe, err := b.Generate(context.Background(), "孤独的夜", "少糖")
	require.NoError(t, err)

	assert.Equal(t, "月光", recipe.Name)
	assert.Equal(t, []string{"倒入30ml金酒"}, recipe.Instructions)
	req := f.request()
	assert.Equal(t, "test-model", req.Model)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, PromptGenerate, req.Messages[0].Content)
	assert.Contains(t, req.Messages[1].Content, "孤独的夜")
	assert.Contains(t, req.Messages[1].Content, "少糖")
	require.NotNil(t, req.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, req.ResponseFormat.Type)
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		server *fakeServer
	}{
		{"server error", &fakeServer{status: http.StatusInternalServerError}},
		{"garbage reply", &fakeServer{reply: "I'd rather not."}},
		{"empty reply", &fakeServer{reply: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := setupBartender(t, tt.server)
			_, err := b.Generate(context.Background(), "x", "")
			assert.Error(t, err)
		})
	}
}

func TestAnalyzeKeepsDrinkContents(t *testing.T) {
	f := &fakeServer{reply: "```json\n{\"name\":\"灾难\",\"ingredients\":[{\"name\":\"别的\",\"amount\":\"1ml\"}],\"instructions\":[\"别的\"],\"lore\":\"夜\"}\n```"}
	b := setupBartender(t, f)

	gin := domain.Ingredient{ID: "gin", Name: "伦敦干金酒 (Gin)", ABV: 40, Color: "#F5F5F5", Density: 0.94}
	state := drink.New(domain.GlassMartini)
	state = drink.Apply(state, domain.Action{Type: domain.ActionPour, Ingredient: &gin, Amount: 45})
	state = drink.Apply(state, domain.Action{Type: domain.ActionStir})

	recipe, err := b.Analyze(context.Background(), state)
	require.NoError(t, err)

	assert.Equal(t, "灾难", recipe.Name)
	assert.Equal(t, []domain.RecipeIngredient{{Name: "伦敦干金酒 (Gin)", Amount: "45 ml"}}, recipe.Ingredients)
	assert.Equal(t, []string{"注入 45ml 伦敦干金酒", "轻柔搅拌"}, recipe.Instructions)
	req := f.request()
	assert.Contains(t, req.Messages[0].Content, "马提尼杯")
	assert.Contains(t, req.Messages[1].Content, "伦敦干金酒 (Gin)")
}

func TestJudge(t *testing.T) {
	f := &fakeServer{reply: `{"success": true, "reason": "干净利落"}`}
	b := setupBartender(t, f)

	in := domain.JudgeInput{
		Recipe:       &domain.Recipe{Name: "Martini"},
		Glass:        "马提尼杯",
		Requirements: []domain.Requirement{{Type: domain.RequireIngredient, Target: "gin", Value: 30}},
	}
	got, err := b.Judge(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, domain.MissionResult{Success: true, Reason: "干净利落"}, *got)

	var sent domain.JudgeInput
	require.NoError(t, json.Unmarshal([]byte(f.request().Messages[1].Content[len("请判断这杯酒是否满足任务要求: \n"):]), &sent))
	assert.Equal(t, in, sent)
}

func TestAsk(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{"json answer", `{"answer": "再加点冰。"}`, "再加点冰。"},
		{"plain text", "再加点冰。", "再加点冰。"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeServer{reply: tt.reply}
			b := setupBartender(t, f)

			session := &domain.Session{ID: "s1", Drink: drink.New(domain.GlassHighball)}
			got, err := b.Ask(context.Background(), "太烈了吗？", session)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			req := f.request()
			assert.Contains(t, req.Messages[1].Content, "海波杯")
			assert.Contains(t, req.Messages[1].Content, "太烈了吗？")
		})
	}
}
