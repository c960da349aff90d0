package booking

// Quote is the fully resolved price breakdown for a booking. All amounts are
// whole currency units.
type Quote struct {
	BasePrice       int64
	ServiceDiscount int64
	PromoDiscount   int64
	TotalPrice      int64
}

// PromoTerms is what the pricing calculation needs to know about an applied
// promo code.
type PromoTerms struct {
	Percentage bool
	Value      int64
}

// ComputeQuote derives the final price. The service-level percentage discount
// applies to the package price first, then the promo applies to the already
// discounted amount. Percentage promos use integer division; fixed promos are
// capped so the total never goes negative. A down payment halves the total;
// the remaining half is collected outside the booking flow.
func ComputeQuote(packagePrice int64, serviceDiscountPct int, promo *PromoTerms, paymentType PaymentType) Quote {
	q := Quote{BasePrice: packagePrice}

	subtotal := packagePrice
	if serviceDiscountPct > 0 {
		q.ServiceDiscount = subtotal * int64(serviceDiscountPct) / 100
		subtotal -= q.ServiceDiscount
	}

	if promo != nil {
		if promo.Percentage {
			q.PromoDiscount = subtotal * promo.Value / 100
		} else {
			q.PromoDiscount = promo.Value
			if q.PromoDiscount > subtotal {
				q.PromoDiscount = subtotal
			}
		}
		subtotal -= q.PromoDiscount
	}

	if subtotal < 0 {
		subtotal = 0
	}
	if paymentType == PaymentDownPayment {
		subtotal /= 2
	}
	q.TotalPrice = subtotal
	return q
}
