// Package pack computes the initial circle packing of the bubble chart.
//
// Circles are sized by area (radius sqrt(weight)) and placed in input order
// with the front-chain algorithm of Wang et al.: each new circle is put
// tangent to two circles of the current front chain and the chain is
// repaired when the new circle intersects it. The smallest circle enclosing
// the chain is found with Welzl's move-to-front algorithm and the packing
// is scaled to fit the target rectangle:
//
//	circles := pack.Layout(weights, 960, 600, 1.5)
//	pack.Magnify(circles, 480, 300, 3)
package pack
