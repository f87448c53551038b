// Package fake generates randomly populated entity graphs.
//
// It configures github.com/go-faker/faker/v4 once and layers typed override
// hooks on top of it: after the generator has filled a fresh value of type T,
// the override registered for T (if any) fixes up identity and relationship
// fields so the returned graph is domain-valid.
//
//	f, err := fake.New(fake.Config{
//		RecursiveDepth: 0,
//		Overrides: []fake.Override{
//			fake.For(func(f *fake.Faker, c *model.Customer) error {
//				c.ID = uuid.Nil
//				return nil
//			}),
//		},
//	})
//	customer, err := fake.Generate[model.Customer](f)
//
// A Faker is immutable after New and safe for concurrent use.
package fake
