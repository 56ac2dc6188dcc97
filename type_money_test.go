package stocksim

import "testing"

func TestMoney_String(t *testing.T) {
	testCases := []struct {
		m    Money
		want string
	}{
		{USD(1234.5), "$1,234.50"},
		{USD(0.005), "$0.01"},
		{EUR(10), "€10.00"},
		{NO(3.14159), "3.14"},
	}
	for _, tc := range testCases {
		if got := tc.m.String(); got != tc.want {
			t.Errorf("%#v.String() = %q, want %q", tc.m, got, tc.want)
		}
	}
}

func TestMoney_Arithmetic(t *testing.T) {
	if got, want := USD(0.1).Add(USD(0.2)), USD(0.3); !got.Equal(want) {
		t.Errorf("0.1 + 0.2 = %v, want %v", got, want)
	}
	if got, want := NO(5).Add(USD(1)), USD(6); !got.Equal(want) {
		t.Errorf("weak currency add = %#v, want %#v", got, want)
	}
	shares := USD(100).DivPrice(USD(3))
	if got := USD(3).Mul(shares); got.Equal(USD(100)) {
		t.Errorf("100/3*3 = %v should not be exact at finite precision", got)
	}
	if got, want := USD(1000).DivPrice(USD(100)), Q(10); !got.Equal(want) {
		t.Errorf("1000/100 = %v, want %v", got, want)
	}
}

func TestMoney_CurrencyMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("adding USD to EUR did not panic")
		}
	}()
	USD(1).Add(EUR(1))
}
