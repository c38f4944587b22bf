// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package mlp

import "math"

// Nonlinearities accepted for hidden layers.
const (
	NonlinNone      = "none"
	NonlinReLU      = "relu"
	NonlinELU       = "elu"
	NonlinLeakyReLU = "leaky_relu"
	NonlinSELU      = "selu"
	NonlinTanh      = "tanh"
	NonlinSigmoid   = "sigmoid"
)

// Nonlins lists the accepted nonlinearities in a stable order.
var Nonlins = []string{NonlinNone, NonlinReLU, NonlinELU, NonlinLeakyReLU, NonlinSELU, NonlinTanh, NonlinSigmoid}

const (
	leakySlope = 0.01
	seluAlpha  = 1.6732632423543772
	seluScale  = 1.0507009873554805
)

type activation struct {
	f  func(z float64) float64
	df func(z float64) float64
}

var activations = map[string]activation{
	NonlinNone: {
		f:  func(z float64) float64 { return z },
		df: func(float64) float64 { return 1 },
	},
	NonlinReLU: {
		f: func(z float64) float64 { return math.Max(0, z) },
		df: func(z float64) float64 {
			if z > 0 {
				return 1
			}
			return 0
		},
	},
	NonlinELU: {
		f: func(z float64) float64 {
			if z > 0 {
				return z
			}
			return math.Expm1(z)
		},
		df: func(z float64) float64 {
			if z > 0 {
				return 1
			}
			return math.Exp(z)
		},
	},
	NonlinLeakyReLU: {
		f: func(z float64) float64 {
			if z > 0 {
				return z
			}
			return leakySlope * z
		},
		df: func(z float64) float64 {
			if z > 0 {
				return 1
			}
			return leakySlope
		},
	},
	NonlinSELU: {
		f: func(z float64) float64 {
			if z > 0 {
				return seluScale * z
			}
			return seluScale * seluAlpha * math.Expm1(z)
		},
		df: func(z float64) float64 {
			if z > 0 {
				return seluScale
			}
			return seluScale * seluAlpha * math.Exp(z)
		},
	},
	NonlinTanh: {
		f: math.Tanh,
		df: func(z float64) float64 {
			t := math.Tanh(z)
			return 1 - t*t
		},
	},
	NonlinSigmoid: {
		f: sigmoid,
		df: func(z float64) float64 {
			s := sigmoid(z)
			return s * (1 - s)
		},
	},
}

func sigmoid(z float64) float64 { return 1 / (1 + math.Exp(-z)) }
