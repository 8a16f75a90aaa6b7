// Package conventions provides the standard naming conventions for query builder methods.
//
// A method name addresses fields of the entity by their Go names. The document field name is
// taken from the field's bson tag, else its json tag, else the Go name with a lower-case first letter.
//
//	FindBy<Field>EqualTo(v)                  {field: v}
//	FindBy<Field>NotEqualTo(v)               {field: {$ne: v}}
//	FindBy<Field>GreaterThan(v)              {field: {$gt: v}}
//	FindBy<Field>GreaterThanOrEqualTo(v)     {field: {$gte: v}}
//	FindBy<Field>LessThan(v)                 {field: {$lt: v}}
//	FindBy<Field>LessThanOrEqualTo(v)        {field: {$lte: v}}
//	FindBy<Field>In([]v)                     {field: {$in: [...]}}
//	FindBy<Field>Exists(bool)                {field: {$exists: b}}
//	Set<Field>To(v)                          {$set: {field: v}}
//	Set<Target>ToWhere<Key>EqualTo(v, k)     {key: k} + {$set: {target: v}}
//	Increment<Field>By(n)                    {$inc: {field: n}}
//	Unset<Field>()                           {$unset: {field: ""}}
//
// A convention only matches if the named fields exist and the parameter types fit them.
// All conventions are stateless and safe for concurrent use.
package conventions
