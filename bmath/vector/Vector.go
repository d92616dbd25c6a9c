//Package vector provides the 3D vector operations used by the point-mass
//trajectory integrator.
//
//The axes follow the fire-plane convention of the solver: X points downrange,
//Y is vertical and Z is lateral.
package vector

import (
	"fmt"
	"math"
)

//Vector is a 3D vector
type Vector struct {
	X float64 `json:"x" mapstructure:"x"` //downrange
	Y float64 `json:"y" mapstructure:"y"` //vertical
	Z float64 `json:"z" mapstructure:"z"` //lateral
}

func (v Vector) String() string {
	return fmt.Sprintf("[X=%f,Y=%f,Z=%f]", v.X, v.Y, v.Z)
}

//Create creates a vector from its coordinates
func Create(x, y, z float64) Vector {
	return Vector{X: x, Y: y, Z: z}
}

//Dot returns the scalar product of two vectors
func (v Vector) Dot(b Vector) float64 {
	return v.X*b.X + v.Y*b.Y + v.Z*b.Z
}

//Magnitude returns the length of the vector
func (v Vector) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

//MultiplyByConst multiplies each coordinate by a
func (v Vector) MultiplyByConst(a float64) Vector {
	return Create(a*v.X, a*v.Y, a*v.Z)
}

//Add adds two vectors
func (v Vector) Add(b Vector) Vector {
	return Create(v.X+b.X, v.Y+b.Y, v.Z+b.Z)
}

//Subtract subtracts b from the vector
func (v Vector) Subtract(b Vector) Vector {
	return Create(v.X-b.X, v.Y-b.Y, v.Z-b.Z)
}

//Negate returns the vector pointing in the opposite direction
func (v Vector) Negate() Vector {
	return Create(-v.X, -v.Y, -v.Z)
}

//IsZero reports whether all the coordinates are exactly zero
func (v Vector) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

//Normalize returns a vector of magnitude one collinear to this vector.
//
//A vector shorter than 1e-10 is returned unchanged.
func (v Vector) Normalize() Vector {
	magnitude := v.Magnitude()
	if magnitude < 1e-10 {
		return v
	}
	return v.MultiplyByConst(1.0 / magnitude)
}
