package portal

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/jovemegidio/Zyntra-sub004/internal/config"
)

// Paths and selectors of the scraped reporting portal. The portal has
// no formal API; these mirror its HTML as observed.
const (
	loginPath     = "/login"
	dashboardPath = "/painel"
	reportPath    = "/painel/relatorios/chamadas"
	reportData    = "/painel/relatorios/chamadas/dados"

	loginUserSelector   = `input[name="login"]`
	loginPassSelector   = `input[name="senha"]`
	loginSubmitSelector = `button[type="submit"]`
	menuReportsSelector = `#menu-relatorios`
	menuCallsSelector   = `#menu-relatorios-chamadas`
)

// rodDriver drives the portal through a headless browser. One browser
// process and one page per driver.
type rodDriver struct {
	cfg     *config.Config
	browser *rod.Browser
	page    *rod.Page
}

// NewRodFactory returns a DriverFactory producing rod-backed drivers
// for the configured portal.
func NewRodFactory(cfg *config.Config) DriverFactory {
	return func() Driver {
		return &rodDriver{cfg: cfg}
	}
}

func (d *rodDriver) Open(ctx context.Context) error {
	if d.page != nil {
		return nil
	}

	l := launcher.New().Headless(d.cfg.Portal.Headless)
	if d.cfg.Portal.BrowserPath != "" {
		l = l.Bin(d.cfg.Portal.BrowserPath)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}

	// ctx is the browser's lifetime per the Driver contract; rod
	// cancels its event pipeline with it, which would strand every
	// later WaitNavigation if a request-scoped ctx leaked in here.
	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connect browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		return fmt.Errorf("open page: %w", err)
	}

	d.browser = browser
	d.page = page
	return nil
}

func (d *rodDriver) Navigate(ctx context.Context, u string) error {
	page := d.page.Context(ctx).Timeout(d.cfg.Portal.NavTimeout)
	if err := page.Navigate(u); err != nil {
		return fmt.Errorf("navigate %s: %w", u, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait load %s: %w", u, err)
	}
	return nil
}

func (d *rodDriver) Location(ctx context.Context) (string, error) {
	info, err := d.page.Context(ctx).Timeout(d.cfg.Portal.RequestTimeout).Info()
	if err != nil {
		return "", fmt.Errorf("page info: %w", err)
	}
	return info.URL, nil
}

func (d *rodDriver) SubmitLogin(ctx context.Context, username, password string) error {
	page := d.page.Context(ctx).Timeout(d.cfg.Portal.LoginTimeout)

	userEl, err := page.Element(loginUserSelector)
	if err != nil {
		return fmt.Errorf("find login field: %w", err)
	}
	if err := userEl.Input(username); err != nil {
		return fmt.Errorf("type username: %w", err)
	}

	passEl, err := page.Element(loginPassSelector)
	if err != nil {
		return fmt.Errorf("find password field: %w", err)
	}
	if err := passEl.Input(password); err != nil {
		return fmt.Errorf("type password: %w", err)
	}

	submit, err := page.Element(loginSubmitSelector)
	if err != nil {
		return fmt.Errorf("find submit button: %w", err)
	}
	wait := page.WaitNavigation(proto.PageLifecycleEventNameNetworkAlmostIdle)
	if err := submit.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click submit: %w", err)
	}
	wait()

	return nil
}

func (d *rodDriver) Probe(ctx context.Context) error {
	_, err := d.Location(ctx)
	return err
}

func (d *rodDriver) OpenCallsReport(ctx context.Context) error {
	loc, err := d.Location(ctx)
	if err != nil {
		return err
	}
	if !strings.Contains(loc, dashboardPath) {
		if err := d.Navigate(ctx, d.cfg.Portal.URL+dashboardPath); err != nil {
			return err
		}
	}

	page := d.page.Context(ctx).Timeout(d.cfg.Portal.NavTimeout)
	for _, sel := range []string{menuReportsSelector, menuCallsSelector} {
		el, err := page.Element(sel)
		if err != nil {
			return fmt.Errorf("find menu %s: %w", sel, err)
		}
		if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
			return fmt.Errorf("click menu %s: %w", sel, err)
		}
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait report view: %w", err)
	}
	return nil
}

// fetchFragmentJS performs the portal's own AJAX-style data request
// from inside the page, so it rides on the session's cookies.
const fetchFragmentJS = `async (url, body) => {
	const res = await fetch(url, {
		method: 'POST',
		headers: {
			'Content-Type': 'application/x-www-form-urlencoded',
			'X-Requested-With': 'XMLHttpRequest',
		},
		body: body,
	});
	if (!res.ok) {
		throw new Error('data request failed: ' + res.status);
	}
	return await res.text();
}`

func (d *rodDriver) FetchReportPage(ctx context.Context, req PageRequest) (string, error) {
	form := url.Values{}
	form.Set("dataInicio", req.StartDate)
	form.Set("dataFim", req.EndDate)
	form.Set("ordenacao", req.Sort)
	form.Set("pagina", strconv.Itoa(req.Page))

	page := d.page.Context(ctx).Timeout(d.cfg.Portal.RequestTimeout)
	res, err := page.Eval(fetchFragmentJS, d.cfg.Portal.URL+reportData, form.Encode())
	if err != nil {
		return "", fmt.Errorf("report page %d: %w", req.Page, err)
	}
	return res.Value.Str(), nil
}

func (d *rodDriver) Close() error {
	var err error
	if d.page != nil {
		_ = d.page.Close()
		d.page = nil
	}
	if d.browser != nil {
		err = d.browser.Close()
		d.browser = nil
	}
	return err
}

// LoginURL returns the portal's login entry point.
func LoginURL(cfg *config.Config) string {
	return cfg.Portal.URL + loginPath
}

// authenticatedArea reports whether a location is inside the portal's
// logged-in area.
func authenticatedArea(location string) bool {
	return strings.Contains(location, dashboardPath)
}
