package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/star/sunpos/internal/almanac"
	"github.com/star/sunpos/internal/httputil"
	"github.com/star/sunpos/internal/iers"
	"github.com/star/sunpos/internal/metrics"
	"github.com/star/sunpos/internal/observer"
	"github.com/star/sunpos/internal/report"
	"github.com/star/sunpos/internal/spa"
	"github.com/star/sunpos/internal/track"
)

// writeRequestError maps parameter, validation and IERS errors to responses.
func (s *Server) writeRequestError(w http.ResponseWriter, err error) {
	var pe *paramError
	var ie *spa.InputError
	switch {
	case errors.As(err, &pe):
		httputil.WriteError(w, http.StatusBadRequest, pe.Error(), 0)
	case errors.As(err, &ie):
		httputil.WriteError(w, http.StatusBadRequest, ie.Error(), int(ie.Code))
	case errors.Is(err, errIERSUnavailable):
		httputil.WriteError(w, http.StatusServiceUnavailable, err.Error(), 0)
	case errors.Is(err, track.ErrStepTooSmall), errors.Is(err, track.ErrTooManySamples), errors.Is(err, track.ErrInvertedRange):
		httputil.WriteError(w, http.StatusBadRequest, err.Error(), 0)
	default:
		s.logger.Error("request failed", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "internal error", 0)
	}
}

// positionQuery is the parsed form of a single-instant request.
type positionQuery struct {
	at     time.Time
	site   observer.Site
	req    spa.Request
	detail bool
	input  spa.Input
}

func (s *Server) parsePosition(r *http.Request) (positionQuery, error) {
	q := r.URL.Query()

	at, err := timeParam(q, "time", s.clock.Now())
	if err != nil {
		return positionQuery{}, err
	}
	site, err := siteParam(q, s.cfg.DefaultLocation)
	if err != nil {
		return positionQuery{}, err
	}
	req, err := requestParam(q)
	if err != nil {
		return positionQuery{}, err
	}
	detail, err := boolParam(q, "detail", false)
	if err != nil {
		return positionQuery{}, err
	}
	spec, err := offsetParam(q)
	if err != nil {
		return positionQuery{}, err
	}
	offsets, err := spec.resolve(s.store, at, at)
	if err != nil {
		return positionQuery{}, err
	}

	return positionQuery{
		at:     at,
		site:   site,
		req:    req,
		detail: detail,
		input:  site.Input(at, offsets.At(at), req),
	}, nil
}

// calculate runs the engine and records the outcome.
func calculate(in spa.Input) (spa.Result, error) {
	start := time.Now()
	res, err := spa.Calculate(in)
	metrics.ObserveCalculation(err, time.Since(start))
	return res, err
}

// resultView is the JSON form of a result. Optional outputs are omitted
// when they were not requested or, for events, when they do not occur.
type resultView struct {
	Zenith       float64  `json:"zenith"`
	Elevation    float64  `json:"elevation"`
	Azimuth      float64  `json:"azimuth"`
	AzimuthAstro float64  `json:"azimuth_astro"`
	Incidence    *float64 `json:"incidence,omitempty"`
	EOT          *float64 `json:"eot,omitempty"`

	SunTransitHour *float64 `json:"sun_transit_hour,omitempty"`
	SunriseHour    *float64 `json:"sunrise_hour,omitempty"`
	SunsetHour     *float64 `json:"sunset_hour,omitempty"`
	SRHA           *float64 `json:"srha,omitempty"`
	SSHA           *float64 `json:"ssha,omitempty"`
	STA            *float64 `json:"sta,omitempty"`

	SunTransit *time.Time `json:"sun_transit,omitempty"`
	Sunrise    *time.Time `json:"sunrise,omitempty"`
	Sunset     *time.Time `json:"sunset,omitempty"`
	Polar      bool       `json:"polar,omitempty"`
}

type positionResponse struct {
	Time   time.Time   `json:"time"`
	Input  spa.Input   `json:"input"`
	Result resultView  `json:"result"`
	Detail *spa.Detail `json:"detail,omitempty"`
}

func ptr(v float64) *float64 { return &v }

// eventTime places a local fractional hour on the calendar day of at.
func eventTime(at time.Time, hour float64) *time.Time {
	d, ok := spa.HourToDuration(hour)
	if !ok {
		return nil
	}
	t := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location()).Add(d)
	return &t
}

func newResultView(at time.Time, req spa.Request, res spa.Result) resultView {
	v := resultView{
		Zenith:       res.Zenith,
		Elevation:    res.Elevation(),
		Azimuth:      res.Azimuth,
		AzimuthAstro: res.AzimuthAstro,
	}
	if req.Incidence {
		v.Incidence = ptr(res.Incidence)
	}
	if req.RiseTransitSet {
		v.EOT = ptr(res.EOT)
		if res.HasRiseSet() {
			v.SunTransitHour = ptr(res.SunTransit)
			v.SunriseHour = ptr(res.Sunrise)
			v.SunsetHour = ptr(res.Sunset)
			v.SRHA = ptr(res.SRHA)
			v.SSHA = ptr(res.SSHA)
			v.STA = ptr(res.STA)
			v.SunTransit = eventTime(at, res.SunTransit)
			v.Sunrise = eventTime(at, res.Sunrise)
			v.Sunset = eventTime(at, res.Sunset)
		} else {
			v.Polar = true
		}
	}
	return v
}

func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	pq, err := s.parsePosition(r)
	if err != nil {
		s.writeRequestError(w, err)
		return
	}

	res, err := calculate(pq.input)
	if err != nil {
		s.writeRequestError(w, err)
		return
	}

	resp := positionResponse{
		Time:   pq.at,
		Input:  pq.input,
		Result: newResultView(pq.at, pq.req, res),
	}
	if pq.detail {
		resp.Detail = &res.Detail
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	pq, err := s.parsePosition(r)
	if err != nil {
		s.writeRequestError(w, err)
		return
	}

	res, err := calculate(pq.input)
	if err != nil {
		s.writeRequestError(w, err)
		return
	}

	tag := report.Match(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Language", tag.String())
	w.WriteHeader(http.StatusOK)
	if err := report.Render(w, tag, pq.input, res); err != nil {
		s.logger.Warn("failed to write report", "error", err)
	}
}

type almanacResponse struct {
	Site observer.Site `json:"site"`
	Days []almanac.Day `json:"days"`
}

func (s *Server) handleAlmanac(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	loc, err := zoneParam(q)
	if err != nil {
		s.writeRequestError(w, err)
		return
	}
	if loc == nil {
		loc = time.UTC
	}

	now := s.clock.Now().In(loc)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if v := q.Get("date"); v != "" {
		start, err = time.ParseInLocation(time.DateOnly, v, loc)
		if err != nil {
			s.writeRequestError(w, badParam("date", "%q is not YYYY-MM-DD", v))
			return
		}
	}

	days, err := intParam(q, "days", 1, 1, almanac.MaxDays)
	if err != nil {
		s.writeRequestError(w, err)
		return
	}
	site, err := siteParam(q, s.cfg.DefaultLocation)
	if err != nil {
		s.writeRequestError(w, err)
		return
	}
	spec, err := offsetParam(q)
	if err != nil {
		s.writeRequestError(w, err)
		return
	}
	offsets, err := spec.resolve(s.store, start, start.AddDate(0, 0, days-1))
	if err != nil {
		s.writeRequestError(w, err)
		return
	}

	req := almanac.Request{
		Site:    site,
		Start:   start,
		Days:    days,
		Offsets: offsets,
		Workers: s.cfg.Workers,
	}
	if err := almanac.Validate(req); err != nil {
		s.writeRequestError(w, err)
		return
	}

	result := almanac.Days(r.Context(), req)

	var failed int
	for _, d := range result {
		if d.Error != "" {
			failed++
		}
	}
	metrics.AddBatchItems("almanac", len(result)-failed, failed)

	httputil.WriteJSON(w, http.StatusOK, almanacResponse{Site: site, Days: result})
}

type seasonsResponse struct {
	Year    int              `json:"year"`
	Seasons []almanac.Season `json:"seasons"`
}

func (s *Server) handleSeasons(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, err := intParam(q, "year", s.clock.Now().UTC().Year(), -1000, 3000)
	if err != nil {
		s.writeRequestError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, seasonsResponse{
		Year:    year,
		Seasons: almanac.Seasons(year, s.store.DeltaT),
	})
}

type trackResponse struct {
	Site    observer.Site  `json:"site"`
	Step    float64        `json:"step_seconds"`
	Count   int            `json:"count"`
	Errors  int            `json:"errors"`
	Samples []track.Sample `json:"samples"`
}

func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	for _, name := range []string{"from", "to"} {
		if q.Get(name) == "" {
			s.writeRequestError(w, badParam(name, "required"))
			return
		}
	}
	from, err := timeParam(q, "from", time.Time{})
	if err != nil {
		s.writeRequestError(w, err)
		return
	}
	to, err := timeParam(q, "to", time.Time{})
	if err != nil {
		s.writeRequestError(w, err)
		return
	}
	step, err := durationParam(q, "step", time.Hour)
	if err != nil {
		s.writeRequestError(w, err)
		return
	}
	site, err := siteParam(q, s.cfg.DefaultLocation)
	if err != nil {
		s.writeRequestError(w, err)
		return
	}
	incidence, err := boolParam(q, "incidence", false)
	if err != nil {
		s.writeRequestError(w, err)
		return
	}
	spec, err := offsetParam(q)
	if err != nil {
		s.writeRequestError(w, err)
		return
	}

	req := track.Request{
		Site:      site,
		From:      from,
		To:        to,
		Step:      step,
		Incidence: incidence,
	}
	if _, err := req.Count(); err != nil {
		s.writeRequestError(w, err)
		return
	}
	if req.Offsets, err = spec.resolve(s.store, from, to); err != nil {
		s.writeRequestError(w, err)
		return
	}

	samples, ok, failed, err := s.pool.Run(r.Context(), req)
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		s.writeRequestError(w, err)
		return
	}
	metrics.AddBatchItems("track", ok, failed)

	httputil.WriteJSON(w, http.StatusOK, trackResponse{
		Site:    site,
		Step:    step.Seconds(),
		Count:   len(samples),
		Errors:  failed,
		Samples: samples,
	})
}

type iersMetadataResponse struct {
	Source     string         `json:"source"`
	FetchedAt  time.Time      `json:"fetched_at"`
	AgeSeconds float64        `json:"age_seconds"`
	Rows       int            `json:"rows"`
	Predicted  int            `json:"predicted"`
	Range      iers.DateRange `json:"range"`
}

func (s *Server) handleIERSMetadata(w http.ResponseWriter, r *http.Request) {
	tbl := s.store.Get()
	if tbl == nil {
		httputil.WriteError(w, http.StatusServiceUnavailable, "no IERS table loaded", 0)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, iersMetadataResponse{
		Source:     tbl.Source,
		FetchedAt:  tbl.FetchedAt,
		AgeSeconds: s.store.AgeSeconds(),
		Rows:       len(tbl.Entries),
		Predicted:  tbl.Predicted(),
		Range:      tbl.Range,
	})
}
