//Package weather fetches the current conditions from the open-meteo forecast service
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gehtsoft-usa/go_ballisticsolver"
)

//DefaultTimeout is the timeout of a weather request
const DefaultTimeout = 10 * time.Second

//ErrTimeout is returned when the weather service does not answer in time
var ErrTimeout = errors.New("the request to get weather data timed out")

const currentFields = "temperature_2m,relative_humidity_2m,surface_pressure,wind_speed_10m,wind_direction_10m"

//Conditions are the current conditions at a location
type Conditions struct {
	Latitude  float64
	Longitude float64
	Time      string
	//Temperature in °C
	Temperature float64
	//Humidity in percent
	Humidity float64
	//Pressure is the surface pressure in hPa
	Pressure float64
	//WindSpeed in m/s
	WindSpeed float64
	//WindDirection is the direction the wind blows from, degrees
	WindDirection float64
}

type forecastResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Current   struct {
		Time             string  `json:"time"`
		Temperature2m    float64 `json:"temperature_2m"`
		RelativeHumidity float64 `json:"relative_humidity_2m"`
		SurfacePressure  float64 `json:"surface_pressure"`
		WindSpeed10m     float64 `json:"wind_speed_10m"`
		WindDirection10m float64 `json:"wind_direction_10m"`
	} `json:"current"`
}

//Client handles communication with the forecast service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

//New creates a new weather client.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

//Current returns the current conditions at the location
func (c *Client) Current(ctx context.Context, latitude, longitude float64) (Conditions, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
	q.Set("current", currentFields)
	q.Set("wind_speed_unit", "ms")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/forecast?"+q.Encode(), nil)
	if err != nil {
		return Conditions{}, fmt.Errorf("failed to create weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return Conditions{}, ErrTimeout
		}
		return Conditions{}, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Conditions{}, fmt.Errorf("failed to get weather data, status code: %d", resp.StatusCode)
	}

	var body forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		if isTimeout(err) {
			return Conditions{}, ErrTimeout
		}
		return Conditions{}, fmt.Errorf("failed to decode weather data: %w", err)
	}

	return Conditions{
		Latitude:      body.Latitude,
		Longitude:     body.Longitude,
		Time:          body.Current.Time,
		Temperature:   body.Current.Temperature2m,
		Humidity:      body.Current.RelativeHumidity,
		Pressure:      body.Current.SurfacePressure,
		WindSpeed:     body.Current.WindSpeed10m,
		WindDirection: body.Current.WindDirection10m,
	}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

//Apply copies the conditions into the environment record
func (w Conditions) Apply(env go_ballisticsolver.EnvironmentRecord) go_ballisticsolver.EnvironmentRecord {
	env.Temperature = w.Temperature
	env.Humidity = w.Humidity
	env.Pressure = w.Pressure
	env.WindSpeed = w.WindSpeed
	env.WindAzimuth = w.WindDirection
	env.WeatherLatitude = w.Latitude
	env.WeatherLongitude = w.Longitude
	return env
}
