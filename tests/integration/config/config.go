package config

import (
	"os"
	"path"
	"sort"
	"sync"
	"time"

	"github.com/wallarm/gotestcalc/internal/config"
)

// EndpointsMap holds the endpoint paths a run is expected to request. Every
// path is removed on its first request.
type EndpointsMap struct {
	sync.Mutex
	m map[string]int
}

func NewEndpointsMap(paths ...string) *EndpointsMap {
	m := make(map[string]int, len(paths))
	for _, p := range paths {
		m[p]++
	}

	return &EndpointsMap{m: m}
}

func (em *EndpointsMap) CheckEndpointAvailability(p string) bool {
	em.Lock()
	defer em.Unlock()

	if _, ok := em.m[p]; ok {
		em.m[p]--
		if em.m[p] == 0 {
			delete(em.m, p)
		}
		return true
	}

	return false
}

func (em *EndpointsMap) CountEndpoints() int {
	em.Lock()
	defer em.Unlock()

	return len(em.m)
}

func (em *EndpointsMap) GetRemainingValues() []string {
	var res []string

	em.Lock()
	defer em.Unlock()

	for k := range em.m {
		res = append(res, k)
	}

	sort.Strings(res)

	return res
}

func GetConfig(url string, mockURL string) *config.Config {
	return &config.Config{
		URL:             url,
		MockURL:         mockURL,
		Timeout:         config.DefaultTimeout,
		HTTPHeaders:     nil,
		TLSVerify:       false,
		Proxy:           "",
		MaxIdleConns:    2,
		MaxRedirects:    0,
		IdleConnTimeout: 2,
		ReportPath:      path.Join(os.TempDir(), "reports"),
		ReportFormat:    []string{"none"},
		TestCase:        "",
		TestCasesPath:   "",
		TestSet:         "",
		LogLevel:        "debug",
	}
}

// ShortTimeout is used by checks that expect the service not to answer in time.
const ShortTimeout = 100 * time.Millisecond
