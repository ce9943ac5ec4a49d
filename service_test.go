package vcmaturity

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcmtools/vcm-maturity/internal/vcm"
)

func newTestService(t *testing.T) *VcmMaturityService {
	t.Helper()
	srvc, err := New(Name("test-assess"), ID("test-assess-1"))
	require.NoError(t, err)
	return srvc
}

func doJSON(t *testing.T, srvc *VcmMaturityService, method, target string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, target, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	srvc.e.ServeHTTP(rec, req)
	return rec
}

func fullAnswers() map[string]string {
	answers := map[string]string{}
	for _, pillar := range vcm.Default().Pillars {
		for _, q := range pillar.Questions {
			answers[q.ID] = "Defined and repeatable"
		}
	}
	return answers
}

func TestPing(t *testing.T) {
	srvc := newTestService(t)
	rec := doJSON(t, srvc, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCatalogEndpoint(t *testing.T) {
	srvc := newTestService(t)
	rec := doJSON(t, srvc, http.MethodGet, "/catalog", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var cat vcm.Catalog
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cat))
	assert.Len(t, cat.Pillars, 4)
	assert.Len(t, cat.Options, 5)
}

func TestScoreEndpoint(t *testing.T) {
	srvc := newTestService(t)

	rec := doJSON(t, srvc, http.MethodPost, "/score", AssessmentRequest{Answers: fullAnswers()})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3.0, resp["overallScore"])
	assert.Equal(t, "Established", resp["maturityLevel"])
	assert.Equal(t, "test-assess", resp["assessServiceName"])
	assert.NotEmpty(t, resp["pillarScores"])
	assert.NotEmpty(t, resp["initiatives"])
}

func TestScoreEndpointRejectsPartialAnswers(t *testing.T) {
	srvc := newTestService(t)

	answers := fullAnswers()
	delete(answers, "execution_delivery")

	rec := doJSON(t, srvc, http.MethodPost, "/score", AssessmentRequest{Answers: answers})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "execution_delivery")
}

func TestSessionFlow(t *testing.T) {
	srvc := newTestService(t)

	// create a session
	rec := doJSON(t, srvc, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		SessionID string `json:"sessionId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.SessionID)

	// report is rejected while answers are missing
	rec = doJSON(t, srvc, http.MethodGet, "/sessions/"+created.SessionID+"/report", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// answer in two batches, overwriting one answer along the way
	answers := fullAnswers()
	first := map[string]string{
		"strategy_alignment":      "Not started",
		"strategy_prioritization": answers["strategy_prioritization"],
	}
	rec = doJSON(t, srvc, http.MethodPut, "/sessions/"+created.SessionID+"/answers", AssessmentRequest{
		Answers:      first,
		ValueAtStake: map[string]float64{"strategy": 1500000},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, srvc, http.MethodPut, "/sessions/"+created.SessionID+"/answers", AssessmentRequest{Answers: answers})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// results are now available
	rec = doJSON(t, srvc, http.MethodGet, "/sessions/"+created.SessionID+"/result", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "Established", result["maturityLevel"])

	// report downloads as a markdown attachment, twice identically
	rec = doJSON(t, srvc, http.MethodGet, "/sessions/"+created.SessionID+"/report", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "vcm_assessment.md")
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/markdown")
	body := rec.Body.String()
	assert.Contains(t, body, "# Value-Centered Maturity Assessment")
	assert.Contains(t, body, "₱1,500,000 (PHP)")
	assert.NotContains(t, body, "Generated:")

	again := doJSON(t, srvc, http.MethodGet, "/sessions/"+created.SessionID+"/report", nil)
	assert.Equal(t, body, again.Body.String())

	// a timestamp appears only when the caller asks for one
	stamped := doJSON(t, srvc, http.MethodGet, "/sessions/"+created.SessionID+"/report?timestamp=2021-06-01", nil)
	assert.Contains(t, stamped.Body.String(), "_Generated: 2021-06-01_")
}

func TestAnswersRejectUnknownOption(t *testing.T) {
	srvc := newTestService(t)

	rec := doJSON(t, srvc, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		SessionID string `json:"sessionId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(t, srvc, http.MethodPut, "/sessions/"+created.SessionID+"/answers", AssessmentRequest{
		Answers: map[string]string{"strategy_alignment": "Pretty good"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Pretty good")

	rec = doJSON(t, srvc, http.MethodPut, "/sessions/"+created.SessionID+"/answers", AssessmentRequest{
		Answers: map[string]string{"strategy_vision": "Not started"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "strategy_vision")
}

func TestDeleteSession(t *testing.T) {
	srvc := newTestService(t)

	rec := doJSON(t, srvc, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		SessionID string `json:"sessionId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(t, srvc, http.MethodDelete, "/sessions/"+created.SessionID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, srvc, http.MethodGet, "/sessions/"+created.SessionID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnknownSessionIs404(t *testing.T) {
	srvc := newTestService(t)

	rec := doJSON(t, srvc, http.MethodGet, "/sessions/nope/result", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, srvc, http.MethodPut, "/sessions/nope/answers", AssessmentRequest{
		Answers: map[string]string{"strategy_alignment": "Not started"},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
