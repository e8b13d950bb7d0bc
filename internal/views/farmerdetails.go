package views

import (
	"context"

	"github.com/agribizboost/agriadmin/internal/domain/dto"
)

// FarmerDetails shows one farmer across all services.
type FarmerDetails struct {
	state
	api API

	ID         string
	TimeFilter dto.TimeFilter
	Farmer     *dto.FarmerData
}

func NewFarmerDetails(api API, id string) *FarmerDetails {
	return &FarmerDetails{api: api, ID: id, TimeFilter: dto.TimeAll}
}

func (d *FarmerDetails) Load(ctx context.Context) {
	d.begin()
	f, err := d.api.Farmer(ctx, d.ID, d.TimeFilter)
	if err != nil {
		d.fail(err)
		return
	}
	d.Farmer = f
	d.settle(false)
}

func (d *FarmerDetails) SetTimeFilter(ctx context.Context, tf dto.TimeFilter) {
	d.TimeFilter = tf
	d.Load(ctx)
}

// Export fetches the full record for download. It does not change the
// page state.
func (d *FarmerDetails) Export(ctx context.Context) (*dto.FarmerData, error) {
	return d.api.ExportFarmer(ctx, d.ID)
}

// TradedGoods is the most-traded-goods pie.
func (d *FarmerDetails) TradedGoods() []Bar {
	if d.Farmer == nil || d.Farmer.Expenses == nil {
		return nil
	}
	out := make([]Bar, 0, len(d.Farmer.Expenses.MostTradedGoods))
	for _, g := range d.Farmer.Expenses.MostTradedGoods {
		out = append(out, Bar{Label: g.Name, Value: g.Count})
	}
	return out
}

// FrequentQueries is the forecasting-queries bar chart.
func (d *FarmerDetails) FrequentQueries() []Bar {
	if d.Farmer == nil || d.Farmer.Forecasting == nil {
		return nil
	}
	out := make([]Bar, 0, len(d.Farmer.Forecasting.MostFrequentQueries))
	for _, q := range d.Farmer.Forecasting.MostFrequentQueries {
		out = append(out, Bar{Label: q.Query, Value: q.Count})
	}
	return out
}
