package vcmaturity

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"github.com/vcmtools/vcm-maturity/internal/session"
	"github.com/vcmtools/vcm-maturity/internal/util"
	"github.com/vcmtools/vcm-maturity/internal/vcm"
)

type VcmMaturityService struct {
	// embedded web server to handle assessment requests
	e *echo.Echo
	// the unique name of this service when running multiple instances
	serviceName string
	// the unique id of this service when running multiple instances
	serviceID string
	// the host address this service instance is running on
	serviceHost string
	// the port that this service instance is running on
	servicePort int
	// optional path to a json file replacing the built-in questionnaire
	catalogFile string
	// the questionnaire served and scored by this instance
	catalog *vcm.Catalog
	// in-memory store of in-progress answer sessions
	sessions *session.Store
}

//
// Payload for the one-shot scoring method and for recording
// answers against a session.
// Params can be provided as json payload or via form components.
//
type AssessmentRequest struct {
	//
	// answers maps question id to the selected option label,
	// e.g. "strategy_alignment": "Defined and repeatable"
	//
	Answers map[string]string `json:"answers" form:"answers"`
	//
	// optional per-pillar value-at-stake estimates in PHP,
	// carried through to the report for display only
	//
	ValueAtStake map[string]float64 `json:"valueAtStake" form:"valueAtStake"`
	//
	// optional timestamp echoed into the report verbatim;
	// when absent the report carries no timestamp
	//
	Timestamp string `json:"timestamp" form:"timestamp" query:"timestamp"`
}

//
// create a new service instance
//
func New(options ...Option) (*VcmMaturityService, error) {

	srvc := VcmMaturityService{}

	if err := srvc.setOptions(options...); err != nil {
		return nil, err
	}

	if srvc.catalogFile != "" {
		cat, err := vcm.Load(srvc.catalogFile)
		if err != nil {
			return nil, err
		}
		srvc.catalog = cat
	} else {
		srvc.catalog = vcm.Default()
	}

	srvc.sessions = session.NewStore()

	srvc.e = echo.New()
	srvc.e.Logger.SetLevel(log.INFO)
	// add pingable method to know we're up
	srvc.e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, "OK")
	})
	// catalog for form rendering
	srvc.e.GET("/catalog", func(c echo.Context) error {
		return c.JSON(http.StatusOK, srvc.catalog)
	})
	// one-shot scoring of a complete answer set
	srvc.e.POST("/score", srvc.buildScoreHandler())
	// interactive sessions holding partial answer sets
	srvc.e.POST("/sessions", srvc.buildSessionCreateHandler())
	srvc.e.GET("/sessions/:id", srvc.buildSessionGetHandler())
	srvc.e.DELETE("/sessions/:id", srvc.buildSessionDeleteHandler())
	srvc.e.PUT("/sessions/:id/answers", srvc.buildAnswersHandler())
	srvc.e.GET("/sessions/:id/result", srvc.buildResultHandler())
	srvc.e.GET("/sessions/:id/report", srvc.buildReportHandler())

	return &srvc, nil
}

//
// start the service running
//
func (s *VcmMaturityService) Start() {

	address := fmt.Sprintf("%s:%d", s.serviceHost, s.servicePort)
	go func(addr string) {
		if err := s.e.Start(addr); err != nil {
			s.e.Logger.Info("error starting server: ", err, ", shutting down...")
			// attempt clean shutdown by raising sig int
			p, _ := os.FindProcess(os.Getpid())
			p.Signal(os.Interrupt)
		}
	}(address)

}

//
// creates the main scoring method
// requires a json input of answers covering every catalog question,
// plus optional valueAtStake entries, returns pillar scores, the
// overall score and maturity level, and matching initiatives
//
func (s *VcmMaturityService) buildScoreHandler() echo.HandlerFunc {

	sName := s.serviceName
	sID := s.serviceID

	return func(c echo.Context) error {
		defer util.TimeTrack(time.Now(), "assessment scoring")

		ar := &AssessmentRequest{}
		if err := c.Bind(ar); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err)
		}

		result, initiatives, err := s.assess(ar.Answers)
		if err != nil {
			return httpError(err)
		}

		scoreResponse := map[string]interface{}{
			"overallScore":      result.Overall,
			"maturityLevel":     result.Level,
			"pillarScores":      result.PillarScores,
			"initiatives":       initiatives,
			"assessServiceID":   sID,
			"assessServiceName": sName,
		}

		return c.JSON(http.StatusOK, scoreResponse)
	}
}

func (s *VcmMaturityService) buildSessionCreateHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		sess := s.sessions.Create()
		return c.JSON(http.StatusCreated, sess)
	}
}

func (s *VcmMaturityService) buildSessionGetHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := s.sessions.Get(c.Param("id"))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusOK, sess)
	}
}

func (s *VcmMaturityService) buildSessionDeleteHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		s.sessions.Remove(c.Param("id"))
		return c.NoContent(http.StatusNoContent)
	}
}

//
// records (or overwrites) answers and value-at-stake entries against a
// session. Answers are validated against the catalog on the way in so a
// bad option label is rejected at capture time, not at report time.
//
func (s *VcmMaturityService) buildAnswersHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		ar := &AssessmentRequest{}
		if err := c.Bind(ar); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err)
		}

		for qid, label := range ar.Answers {
			if !s.catalog.HasQuestion(qid) {
				return httpError(errors.Wrapf(vcm.ErrInvalidInput, "answer references unknown question %q", qid))
			}
			if _, ok := s.catalog.OptionScore(label); !ok {
				return httpError(errors.Wrapf(vcm.ErrInvalidInput, "unknown option %q for question %q", label, qid))
			}
		}

		sess, err := s.sessions.RecordAnswers(c.Param("id"), ar.Answers, ar.ValueAtStake)
		if err != nil {
			return httpError(err)
		}

		return c.JSON(http.StatusOK, map[string]interface{}{
			"sessionId": sess.ID,
			"answered":  len(sess.Answers),
			"questions": s.catalog.QuestionCount(),
		})
	}
}

func (s *VcmMaturityService) buildResultHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := s.sessions.Get(c.Param("id"))
		if err != nil {
			return httpError(err)
		}

		result, initiatives, err := s.assess(sess.Answers)
		if err != nil {
			return httpError(err)
		}

		return c.JSON(http.StatusOK, map[string]interface{}{
			"sessionId":     sess.ID,
			"overallScore":  result.Overall,
			"maturityLevel": result.Level,
			"pillarScores":  result.PillarScores,
			"initiatives":   initiatives,
			"valueAtStake":  sess.ValueAtStake,
		})
	}
}

//
// renders the markdown summary as a file download. A timestamp is only
// embedded when the caller asks for one via the timestamp query param,
// keeping the default output byte-identical across calls.
//
func (s *VcmMaturityService) buildReportHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := s.sessions.Get(c.Param("id"))
		if err != nil {
			return httpError(err)
		}

		result, initiatives, err := s.assess(sess.Answers)
		if err != nil {
			return httpError(err)
		}

		md := vcm.BuildMarkdownReport(vcm.ReportInput{
			Catalog:      s.catalog,
			Result:       result,
			Initiatives:  initiatives,
			ValueAtStake: sess.ValueAtStake,
			GeneratedAt:  c.QueryParam("timestamp"),
		})

		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="vcm_assessment.md"`)
		return c.Blob(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
	}
}

//
// runs the full assessment pipeline over an answer set: score against
// the catalog, then look up initiatives for every pillar's score band
//
func (s *VcmMaturityService) assess(answers map[string]string) (*vcm.Result, map[string][]vcm.Initiative, error) {

	result, err := vcm.Score(s.catalog, answers)
	if err != nil {
		return nil, nil, err
	}

	initiatives := make(map[string][]vcm.Initiative, len(s.catalog.Pillars))
	for _, pillar := range s.catalog.Pillars {
		ideas, err := vcm.TopInitiatives(pillar.ID, result.PillarScores[pillar.ID].Average, vcm.DefaultInitiativeLimit)
		if err != nil {
			return nil, nil, err
		}
		initiatives[pillar.ID] = ideas
	}

	return result, initiatives, nil
}

//
// map logic errors onto http responses: rejected input and unknown
// sessions are client errors, anything else is a server fault
//
func httpError(err error) error {
	switch {
	case errors.Is(err, vcm.ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

//
// shut the server down gracefully
//
func (s *VcmMaturityService) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.e.Shutdown(ctx); err != nil {
		fmt.Println("could not shut down server cleanly: ", err)
		s.e.Logger.Fatal(err)
	}

}

func (s *VcmMaturityService) PrintConfig() {

	fmt.Println("\n\tVCM-Maturity Service Configuration")
	fmt.Println("\t---------------------------------")
	fmt.Println()

	s.printID()
	s.printCatalogConfig()

}

func (s *VcmMaturityService) printID() {
	fmt.Println("\tservice name:\t\t", s.serviceName)
	fmt.Println("\tservice ID:\t\t", s.serviceID)
	fmt.Println("\tservice host:\t\t", s.serviceHost)
	fmt.Println("\tservice port:\t\t", s.servicePort)
}

func (s *VcmMaturityService) printCatalogConfig() {
	source := "built-in"
	if s.catalogFile != "" {
		source = s.catalogFile
	}
	fmt.Println("\tquestion catalog:\t", source)
	fmt.Println("\tpillars:\t\t", len(s.catalog.Pillars))
	fmt.Println("\tquestions:\t\t", s.catalog.QuestionCount())
}
