package booking

import "testing"

func TestComputeQuote(t *testing.T) {
	tests := []struct {
		name         string
		packagePrice int64
		serviceDisc  int
		promo        *PromoTerms
		paymentType  PaymentType
		want         Quote
	}{
		{
			name:         "no discounts full payment",
			packagePrice: 500000,
			paymentType:  PaymentFull,
			want:         Quote{BasePrice: 500000, TotalPrice: 500000},
		},
		{
			name:         "service discount full payment",
			packagePrice: 100000,
			serviceDisc:  10,
			paymentType:  PaymentFull,
			want: Quote{
				BasePrice:       100000,
				ServiceDiscount: 10000,
				TotalPrice:      90000,
			},
		},
		{
			name:         "service discount then fixed promo",
			packagePrice: 100000,
			serviceDisc:  10,
			promo:        &PromoTerms{Value: 20000},
			paymentType:  PaymentFull,
			want: Quote{
				BasePrice:       100000,
				ServiceDiscount: 10000,
				PromoDiscount:   20000,
				TotalPrice:      70000,
			},
		},
		{
			name:         "down payment halves the discounted total",
			packagePrice: 100000,
			serviceDisc:  10,
			promo:        &PromoTerms{Value: 20000},
			paymentType:  PaymentDownPayment,
			want: Quote{
				BasePrice:       100000,
				ServiceDiscount: 10000,
				PromoDiscount:   20000,
				TotalPrice:      35000,
			},
		},
		{
			name:         "service discount then percentage promo",
			packagePrice: 500000,
			serviceDisc:  10,
			promo:        &PromoTerms{Percentage: true, Value: 20},
			paymentType:  PaymentFull,
			want: Quote{
				BasePrice:       500000,
				ServiceDiscount: 50000,
				PromoDiscount:   90000, // 20% of 450000, not of 500000
				TotalPrice:      360000,
			},
		},
		{
			name:         "fixed promo larger than subtotal clamps to zero",
			packagePrice: 100000,
			serviceDisc:  50,
			promo:        &PromoTerms{Value: 80000},
			paymentType:  PaymentFull,
			want: Quote{
				BasePrice:       100000,
				ServiceDiscount: 50000,
				PromoDiscount:   50000,
				TotalPrice:      0,
			},
		},
		{
			name:         "down payment uses integer division",
			packagePrice: 500001,
			paymentType:  PaymentDownPayment,
			want: Quote{
				BasePrice:  500001,
				TotalPrice: 250000,
			},
		},
		{
			name:         "percentage promo uses integer division",
			packagePrice: 99999,
			promo:        &PromoTerms{Percentage: true, Value: 10},
			paymentType:  PaymentFull,
			want: Quote{
				BasePrice:     99999,
				PromoDiscount: 9999,
				TotalPrice:    90000,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeQuote(tt.packagePrice, tt.serviceDisc, tt.promo, tt.paymentType)
			if got != tt.want {
				t.Errorf("ComputeQuote() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
